// Package ratelimit 实现按客户端标识的固定窗口限流。
package ratelimit

import (
	"sync"
	"time"
)

// 每 sweepInterval 次检查触发一次过期记录清理，防止表无限增长。
const sweepInterval = 100

type record struct {
	count     int
	resetTime time.Time
}

// Limiter 是进程级的固定窗口限流器，内部用互斥锁保护，可安全并发调用。
type Limiter struct {
	mu         sync.Mutex
	records    map[string]*record
	maxCount   int
	window     time.Duration
	checkCount int
	now        func() time.Time // 测试时可替换
}

// NewLimiter 创建一个限流器：每个标识在 window 窗口内最多 maxCount 次请求。
func NewLimiter(maxCount int, window time.Duration) *Limiter {
	return &Limiter{
		records:  make(map[string]*record),
		maxCount: maxCount,
		window:   window,
		now:      time.Now,
	}
}

// Allow 判定 clientID 的本次请求是否放行。
// 首次请求或窗口已过期时开启新窗口并放行；窗口内未达上限时计数放行；
// 达到上限后拒绝且不再计数。
func (l *Limiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	l.checkCount++
	if l.checkCount%sweepInterval == 0 {
		l.sweepLocked(now)
	}

	r, ok := l.records[clientID]
	if !ok || !now.Before(r.resetTime) {
		l.records[clientID] = &record{count: 1, resetTime: now.Add(l.window)}
		return true
	}

	if r.count >= l.maxCount {
		return false
	}

	r.count++
	return true
}

// Sweep 立即清理所有已过期的窗口记录。
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(l.now())
}

func (l *Limiter) sweepLocked(now time.Time) {
	for id, r := range l.records {
		if !now.Before(r.resetTime) {
			delete(l.records, id)
		}
	}
}

// Reset 清空全部限流状态。
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = make(map[string]*record)
	l.checkCount = 0
}
