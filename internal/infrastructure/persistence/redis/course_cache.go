package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/university-hub/university/internal/domain/course"
	"github.com/university-hub/university/pkg/circuitbreaker"
	"github.com/university-hub/university/pkg/logger"
)

// Cache breaker settings. After breakerFailures consecutive Redis errors the
// cache is bypassed for breakerTimeout.
const (
	breakerFailures = 3
	breakerTimeout  = 30 * time.Second
)

// CachedCourseRepository decorates a course.Repository with a read-through
// cache for single-course lookups. Absent results are not cached. Any write
// drops every cached course. Cache failures are logged and fall through to
// the wrapped repository.
//
// If dropping cached courses fails, the cache is not read again until a later
// drop succeeds, so a stale course is never served.
type CachedCourseRepository struct {
	course.Repository

	cache   *Cache
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
	stale   atomic.Bool
	logger  *logger.Logger
}

// NewCachedCourseRepository wraps repo. A non-positive ttl selects TTLCourseCache.
func NewCachedCourseRepository(repo course.Repository, cache *Cache, ttl time.Duration, log *logger.Logger) *CachedCourseRepository {
	if ttl <= 0 {
		ttl = TTLCourseCache
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("course_cache"))

	return &CachedCourseRepository{
		Repository: repo,
		cache:      cache,
		ttl:        ttl,
		logger:     log,
		breaker: circuitbreaker.New("redis-course-cache",
			circuitbreaker.WithFailureThreshold(breakerFailures),
			circuitbreaker.WithSuccessThreshold(1),
			circuitbreaker.WithTimeout(breakerTimeout),
			circuitbreaker.WithIsFailure(func(err error) bool {
				return !errors.Is(err, ErrCacheMiss)
			}),
			circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
				log.Warn("cache breaker state changed",
					logger.String("breaker", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			}),
		),
	}
}

var _ course.Repository = (*CachedCourseRepository)(nil)

// Breaker exposes the breaker guarding Redis calls.
func (r *CachedCourseRepository) Breaker() *circuitbreaker.CircuitBreaker {
	return r.breaker
}

// FindByID serves the course from cache, loading it on a miss.
func (r *CachedCourseRepository) FindByID(ctx context.Context, id int) (*course.Course, error) {
	return r.readThrough(ctx, CourseIDKey(id), func() (*course.Course, error) {
		return r.Repository.FindByID(ctx, id)
	})
}

// FindByName serves the course from cache, loading it on a miss.
func (r *CachedCourseRepository) FindByName(ctx context.Context, name string) (*course.Course, error) {
	return r.readThrough(ctx, CourseNameKey(name), func() (*course.Course, error) {
		return r.Repository.FindByName(ctx, name)
	})
}

// Save stores the course and drops cached lookups.
func (r *CachedCourseRepository) Save(ctx context.Context, c *course.Course) error {
	if err := r.Repository.Save(ctx, c); err != nil {
		return err
	}
	r.invalidate(ctx, "Save")
	return nil
}

// DeleteByID removes the course and drops cached lookups.
func (r *CachedCourseRepository) DeleteByID(ctx context.Context, id int) error {
	if err := r.Repository.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, "DeleteByID")
	return nil
}

func (r *CachedCourseRepository) readThrough(ctx context.Context, key string, load func() (*course.Course, error)) (*course.Course, error) {
	if cached, ok := r.lookup(ctx, key); ok {
		return cached, nil
	}

	c, err := load()
	if err != nil || c == nil {
		return c, err
	}

	r.store(ctx, key, c)
	return c, nil
}

func (r *CachedCourseRepository) lookup(ctx context.Context, key string) (*course.Course, bool) {
	if r.stale.Load() && !r.dropAll(ctx) {
		return nil, false
	}

	var cached course.Course
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.cache.Get(ctx, key, &cached)
	})
	switch {
	case err == nil:
		return &cached, true
	case errors.Is(err, ErrCacheMiss), circuitbreaker.IsRejected(err):
	default:
		r.logger.Warn("cache read failed", logger.String("key", key), logger.Err(err))
	}
	return nil, false
}

func (r *CachedCourseRepository) store(ctx context.Context, key string, c *course.Course) {
	if r.stale.Load() {
		return
	}
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.cache.Set(ctx, key, c, r.ttl)
	})
	if err != nil && !circuitbreaker.IsRejected(err) {
		r.logger.Warn("cache write failed", logger.String("key", key), logger.Err(err))
	}
}

func (r *CachedCourseRepository) invalidate(ctx context.Context, op string) {
	r.stale.Store(true)
	if !r.dropAll(ctx) {
		r.logger.Warn("cache invalidation deferred", logger.Operation(op))
	}
}

// dropAll deletes every course key and clears the stale mark on success.
func (r *CachedCourseRepository) dropAll(ctx context.Context) bool {
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.cache.DeleteByPattern(ctx, PrefixCourse+"*")
	})
	if err != nil {
		if !circuitbreaker.IsRejected(err) {
			r.logger.Warn("cache invalidation failed", logger.Err(err))
		}
		return false
	}
	r.stale.Store(false)
	return true
}
