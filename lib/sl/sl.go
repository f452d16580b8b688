package sl

import (
	"fmt"
	"log/slog"
)

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Secret keeps only the first 5 characters of a credential for logs
func Secret(some string) slog.Attr {
	r := "***"
	if len(some) > 5 {
		r = fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		r = "?"
	}
	return slog.String("secret", r)
}

func Module(mod string) slog.Attr {
	return slog.String("mod", mod)
}

func User(id int64) slog.Attr {
	return slog.Int64("user", id)
}

// Text shortens message bodies to keep log lines readable
func Text(text string) slog.Attr {
	r := []rune(text)
	if len(r) > 50 {
		return slog.String("text", string(r[:50])+"...")
	}
	return slog.String("text", text)
}
