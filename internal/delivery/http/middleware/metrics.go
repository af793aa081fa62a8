package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/accessibility-finder/internal/pkg/metrics"
)

// Metrics - middleware для сбора HTTP-метрик Prometheus.
// В качестве метки path используется шаблон маршрута, а не сырой URL,
// чтобы не раздувать кардинальность.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// Ошибка из цепочки еще не прошла через обработчик ошибок
		// приложения, поэтому статус ответа на этот момент не выставлен
		code := c.Response().StatusCode()
		if err != nil {
			code = fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
		}

		path := c.Route().Path
		method := c.Method()
		status := strconv.Itoa(code)

		m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}
