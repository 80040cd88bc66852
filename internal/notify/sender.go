package notify

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/accounts-api/internal/config"
)

// Mail drivers.
const (
	DriverSMTP = "smtp"
	DriverLog  = "log"
)

// NewSender builds the Sender selected by cfg.Driver.
func NewSender(cfg config.MailConfig, logger *slog.Logger) (Sender, error) {
	switch cfg.Driver {
	case DriverSMTP:
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Username: cfg.Username,
			Password: cfg.Password,
			From:     cfg.From,
		})
	case DriverLog, "":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}
