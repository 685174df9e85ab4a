package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/trucmai204/tinverse/pkg/response"
	"github.com/trucmai204/tinverse/pkg/service/session"
)

// MsgTooManyRequests 超过频率限制时的提示
const MsgTooManyRequests = "Bạn thao tác quá nhanh, vui lòng thử lại sau."

const (
	bucketIdleTTL = 10 * time.Minute
	maxBuckets    = 100000
)

// buckets 按访客保存令牌桶，闲置的桶由 LRU 淘汰
type buckets struct {
	every time.Duration
	burst int
	store *expirable.LRU[string, *rate.Limiter]
}

func newBuckets(requestsPerMinute, burst int) *buckets {
	return &buckets{
		every: time.Minute / time.Duration(max(requestsPerMinute, 1)),
		burst: max(burst, 1),
		store: expirable.NewLRU[string, *rate.Limiter](maxBuckets, nil, bucketIdleTTL),
	}
}

// take 消耗一个令牌。失败时返回下一个令牌可用前需要等待的时间。
func (b *buckets) take(key string, now time.Time) (bool, time.Duration) {
	l, ok := b.store.Get(key)
	if !ok {
		l = rate.NewLimiter(rate.Every(b.every), b.burst)
	}
	// 重新写入以刷新闲置计时
	b.store.Add(key, l)

	r := l.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// visitorKey 已登录用户按用户ID计数，匿名访客按 gin 解析出的客户端IP计数
func visitorKey(c *gin.Context) string {
	if id := session.FromContext(c).UserID(); id > 0 {
		return "u:" + strconv.Itoa(id)
	}
	return "ip:" + c.ClientIP()
}

// RateLimit 限制每个访客每分钟的提交次数，burst 是允许的突发次数
func RateLimit(requestsPerMinute, burst int) gin.HandlerFunc {
	b := newBuckets(requestsPerMinute, burst)
	return func(c *gin.Context) {
		ok, wait := b.take(visitorKey(c), time.Now())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			response.FailToast(c, http.StatusTooManyRequests, MsgTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
