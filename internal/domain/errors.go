package domain

import "errors"

// Классы ошибок запуска. Адаптеры оборачивают конкретную причину
// одним из этих значений, проверка выполняется через errors.Is.
var (
	ErrTransport        = errors.New("transport failure")
	ErrUpstreamResponse = errors.New("upstream response failure")
	ErrParse            = errors.New("parse failure")
	ErrDateParse        = errors.New("date parse failure")
)
