package middlewares

const (
	CtxEmail     = "auth.email"
	CtxRequestID = "request_id"
)
