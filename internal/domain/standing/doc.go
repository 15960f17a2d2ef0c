// Package standing содержит доменную модель академического статуса BIT College.
//
// Статус (standing) - это полоса успеваемости студента, определяемая его GPA.
// Полос ровно четыре, их границы и тарифные коэффициенты - фиксированные
// константы политики колледжа:
//
//	Suspended  [0.00, 1.00)  фактор 1.10
//	Probation  [1.00, 2.00)  фактор 1.075
//	Regular    [2.00, 3.70)  фактор 1.00
//	Honours    [3.70, 4.50]  фактор 0.90
//
// Функция перехода NextVariant двигает статус не более чем на одну полосу
// за шаг. Скачок GPA через несколько полос разрешается циклом сходимости
// (см. application/command.ReconcileStandingHandler): функция применяется
// повторно, пока вычисленный статус не совпадёт с текущим. Полос четыре,
// поэтому цикл завершается не более чем за три шага.
//
// Каждый вариант материализуется в хранилище ровно одной строкой
// (singleton-per-variant). Строка создаётся лениво при первом обращении
// и никогда не удаляется; последующие вызовы возвращают ту же идентичность.
//
// Пакет следует принципам Clean Architecture: нулевые внешние зависимости,
// интерфейс Repository реализуется в infrastructure/persistence.
package standing
