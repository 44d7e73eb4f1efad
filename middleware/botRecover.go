package middleware

import (
	"domik/config"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// BotRecover keeps a panicking handler from killing the poller: the
// panic is logged with the update id and the user gets a generic error.
func BotRecover(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("bot handler panicked",
						zap.Any("panic", r),
						zap.Int("update_id", c.Update().ID),
					)
					_ = c.Send(config.Texts.GenericError)
				}
			}()
			return next(c)
		}
	}
}
