package middleware

import "net/http"

// NewCORSMiddleware 는 지정된 오리진에 대한 CORS 미들웨어를 반환한다.
// 와일드카드(*)는 사용하지 않고 허용 오리진을 고정한다.
// OPTIONS 프리플라이트 요청에는 204 로 응답한다.
func NewCORSMiddleware(allowedOrigin string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "86400")

			// OPTIONS 프리플라이트 요청에는 204 로 응답
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
