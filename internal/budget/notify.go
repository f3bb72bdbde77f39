package budget

import (
	"errors"
)

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a user facing message raised by the session.
type Notification struct {
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Notifier receives session notifications. Implementations must not call
// back into the session.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}

// userMessager is implemented by transport errors carrying a server message.
type userMessager interface {
	UserMessage() string
}

// profitabilityFailure maps a failed profitability request to its notification.
func profitabilityFailure(err error) Notification {
	if errors.Is(err, ErrProfitabilityUnavailable) {
		return Notification{
			Level:       LevelError,
			Title:       "Erro no cálculo de lucratividade",
			Description: "Não foi possível calcular a lucratividade",
		}
	}

	description := "Ocorreu um erro ao calcular a lucratividade"
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		description = um.UserMessage()
	}
	return Notification{Level: LevelError, Title: "Falha no cálculo", Description: description}
}

// submitFailure maps a failed budget creation to its notification.
func submitFailure(err error) Notification {
	description := "Erro desconhecido"
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		description = um.UserMessage()
	} else if err != nil {
		description = err.Error()
	}
	return Notification{Level: LevelError, Title: "Falha ao criar orçamento", Description: description}
}
