package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// OrganizationID records the tenant under "organization_id".
func OrganizationID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("organization_id", id)
}

// UserID records the user under "user_id".
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

func Application(app string) slog.Attr {
	return slog.String("application", app)
}

func Role(role string) slog.Attr {
	return slog.String("role", role)
}

func Permission(p string) slog.Attr {
	return slog.String("permission", p)
}

func Resource(res string) slog.Attr {
	return slog.String("resource", res)
}

func Status(s string) slog.Attr {
	return slog.String("status", s)
}

// Reason records a denial reason. Empty reasons yield an empty Attr.
func Reason(r string) slog.Attr {
	if r == "" {
		return slog.Attr{}
	}
	return slog.String("reason", r)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
