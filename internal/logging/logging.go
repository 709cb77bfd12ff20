package logging

import (
	"go.uber.org/zap"
)

// New builds a SugaredLogger: human-readable in development, JSON in
// production.
func New(dev bool) (*zap.SugaredLogger, error) {
	var z *zap.Logger
	var err error
	if dev {
		cfg := zap.NewDevelopmentConfig()
		z, err = cfg.Build()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}

// Adapter exposes a zap SugaredLogger through the auth.Logger interface so
// the auth core stays free of a logging framework dependency.
type Adapter struct {
	log *zap.SugaredLogger
}

// Adapt wraps the sugared logger.
func Adapt(log *zap.SugaredLogger) *Adapter {
	return &Adapter{log: log}
}

func (a *Adapter) Debug(format string, args ...any) { a.log.Debugw(format, args...) }
func (a *Adapter) Info(format string, args ...any)  { a.log.Infow(format, args...) }
func (a *Adapter) Warn(format string, args ...any)  { a.log.Warnw(format, args...) }
func (a *Adapter) Error(format string, args ...any) { a.log.Errorw(format, args...) }
