package targets

import (
	"net/url"
	"strings"

	"github.com/mmrzaf/tabgen/internal/domain"
)

const mask = "****"

func RedactDSN(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return ""
	}

	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.Host != "" {
		if u.User != nil {
			if _, hasPass := u.User.Password(); hasPass {
				u.User = url.UserPassword(u.User.Username(), mask)
			}
		}
		q := u.Query()
		for _, k := range []string{"password", "pass", "pwd"} {
			if q.Has(k) {
				q.Set(k, mask)
			}
		}
		u.RawQuery = q.Encode()
		return u.String()
	}

	// key=value form
	parts := strings.Fields(dsn)
	redacted := false
	for i := range parts {
		l := strings.ToLower(parts[i])
		if strings.HasPrefix(l, "password=") || strings.HasPrefix(l, "pwd=") || strings.HasPrefix(l, "pass=") {
			k := parts[i][:strings.IndexByte(parts[i], '=')+1]
			parts[i] = k + mask
			redacted = true
		}
	}
	if redacted {
		return strings.Join(parts, " ")
	}

	return mask
}

// IsFileKind reports whether the target's DSN is a plain output path.
func IsFileKind(kind string) bool {
	switch kind {
	case "csv", "jsonl", "sqlite":
		return true
	}
	return false
}

// RedactTarget returns a copy safe to print. File targets keep their path.
func RedactTarget(t *domain.TargetConfig) *domain.TargetConfig {
	if t == nil {
		return nil
	}
	cp := *t
	if !IsFileKind(cp.Kind) {
		cp.DSN = RedactDSN(cp.DSN)
	}
	if len(t.Options) > 0 {
		cp.Options = make(map[string]string, len(t.Options))
		for k, v := range t.Options {
			if isSecretKey(k) {
				v = mask
			}
			cp.Options[k] = v
		}
	}
	return &cp
}

func isSecretKey(k string) bool {
	k = strings.ToLower(k)
	for _, s := range []string{"password", "secret", "token", "api_key", "apikey"} {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

func RedactTargets(list []*domain.TargetConfig) []*domain.TargetConfig {
	out := make([]*domain.TargetConfig, 0, len(list))
	for _, t := range list {
		out = append(out, RedactTarget(t))
	}
	return out
}
