package csrf_token

import "net/http"

type TokenIssuer interface {
	IssueToken(w http.ResponseWriter) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
