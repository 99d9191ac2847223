package httpx

type ctxKey string

// CtxKeyUserID carries the authenticated identity id. The authorization
// middleware sets it; rate limiting keys off it.
const CtxKeyUserID ctxKey = "user_id"
