package mysql

import (
	"context"
	"regexp"
	"sync/atomic"

	"github.com/go-sql-driver/mysql"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/mod/semver"
	"golang.org/x/sync/singleflight"

	"github.com/syssam/sqlforge/dialect/sql"
)

// fractionalSince is the first server version storing fractional
// seconds in datetime, timestamp and time columns.
const fractionalSince = "v5.6.4"

var (
	probeGroup singleflight.Group
	versionRe  = regexp.MustCompile(`^\d+(\.\d+){0,2}`)
)

// fractionalProbe memoizes whether the server supports fractional
// seconds. A race before the first store costs one extra probe.
type fractionalProbe struct {
	conn *sql.Connection
	memo atomic.Pointer[bool]
}

// CacheKey returns the cache key of the probe for dsn. DSNs that parse
// are reduced to network, address and database so that credentials and
// options do not split the cache.
func CacheKey(dsn string) string {
	key := dsn
	if cfg, err := mysql.ParseDSN(dsn); err == nil {
		key = cfg.Net + "(" + cfg.Addr + ")/" + cfg.DBName
	}
	return "sqlforge:mysql:fractional-seconds:" + key
}

// supported reports whether the server supports fractional seconds.
// Probe failures are logged and answered with false without being
// memoized.
func (f *fractionalProbe) supported(ctx context.Context) bool {
	if v := f.memo.Load(); v != nil {
		return *v
	}
	key := CacheKey(f.conn.DSN)
	if ok, hit := f.cached(ctx, key); hit {
		f.memo.Store(&ok)
		return ok
	}
	v, err, _ := probeGroup.Do(key, func() (any, error) {
		version, err := f.conn.ServerVersion(ctx, "SELECT VERSION()")
		if err != nil {
			return false, err
		}
		ok := SupportsFractionalSeconds(version)
		f.store(ctx, key, ok)
		return ok, nil
	})
	if err != nil {
		f.conn.Log().WarnContext(ctx, "mysql: server version probe failed", "error", err)
		return false
	}
	ok := v.(bool)
	f.memo.Store(&ok)
	return ok
}

func (f *fractionalProbe) cached(ctx context.Context, key string) (ok, hit bool) {
	if f.conn.Cache == nil {
		return false, false
	}
	b, err := f.conn.Cache.Get(ctx, key)
	if err != nil || b == nil {
		return false, false
	}
	if err := msgpack.Unmarshal(b, &ok); err != nil {
		f.conn.Log().DebugContext(ctx, "mysql: discarding cached probe", "key", key, "error", err)
		return false, false
	}
	return ok, true
}

func (f *fractionalProbe) store(ctx context.Context, key string, ok bool) {
	if f.conn.Cache == nil {
		return
	}
	b, err := msgpack.Marshal(ok)
	if err == nil {
		err = f.conn.Cache.Set(ctx, key, b, f.conn.CacheDuration)
	}
	if err != nil {
		f.conn.Log().WarnContext(ctx, "mysql: caching probe result", "key", key, "error", err)
	}
}

// SupportsFractionalSeconds reports whether a server version string,
// such as "8.0.36" or "10.11.6-MariaDB", is at least 5.6.4.
func SupportsFractionalSeconds(version string) bool {
	v := versionRe.FindString(version)
	if v == "" {
		return false
	}
	return semver.Compare("v"+v, fractionalSince) >= 0
}
