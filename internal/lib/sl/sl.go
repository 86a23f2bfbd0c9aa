// Package sl хелперы логирования поверх slog: фабрика логгера по окружению
// и единый атрибут для ошибок.
package sl

import "log/slog"

// Err атрибут "error" с текстом ошибки. Для nil пишет пустую строку.
//
//	log.Error("failed to refresh view", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
