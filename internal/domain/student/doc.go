// Package student содержит доменную модель студента BIT College.
//
// Это ядро бизнес-логики системы "BIT College Records". Пакет определяет:
//
//   - Сущность Student: публичный номер, имя, адрес, GPA, ссылка на статус
//   - Вычисление GPA: средневзвешенное по кредитным часам (gpa.go)
//   - Интерфейсы репозитория и кеша: Repository, Cache
//
// # Архитектурные принципы
//
// Пакет следует принципам Clean Architecture и DDD:
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - определяет интерфейсы, которые реализуются в infrastructure
//  3. Rich Domain Model - бизнес-логика инкапсулирована в сущностях
//
// # Академический статус
//
// Ссылка GradePointStateID указывает на singleton-запись статуса
// (см. пакет standing) и мутируется только движком статусов через
// условное обновление Repository.CompareAndSetStanding. Все решения
// движка принимаются по свежему чтению GetAcademicRecord, никогда
// по приватной копии между вызовами.
//
// # Создание студента
//
//	st, err := NewStudent(NewStudentParams{
//	    ID:                shared.RecordID(uuid.New().String()),
//	    StudentNumber:     number, // от генератора последовательностей
//	    GradePointStateID: regular.ID,
//	    FirstName:         "Ada",
//	    LastName:          "Lovelace",
//	    Address:           "10 King St",
//	    City:              "Toronto",
//	    Province:          "ON",
//	})
package student
