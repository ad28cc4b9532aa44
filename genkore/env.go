package genkore

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

// Env is the environment an external tool is executed in.
type Env struct {
	tags map[string]string
}

func DefaultEnv(tr *Trace) *Env {
	env := &Env{tags: make(map[string]string)}
	for _, evar := range os.Environ() {
		kv := strings.SplitN(evar, "=", 2)
		if len(kv) == 0 || kv[0] == "" {
			if tr != nil {
				tr.Warn("ignoring default `env`", `env`, evar)
			}
			continue
		}
		switch len(kv) {
		case 1:
			env.tags[kv[0]] = ""
		default:
			env.tags[kv[0]] = kv[1]
		}
	}
	return env
}

func (e *Env) Tag(key string) (string, bool) {
	v, ok := e.tags[key]
	return v, ok
}

func (e *Env) SetTag(key, val string) {
	if e.tags == nil {
		e.tags = make(map[string]string)
	}
	e.tags[key] = val
}

func (e *Env) SetTags(env ...string) {
	for _, evar := range env {
		kv := strings.SplitN(evar, "=", 2)
		switch len(kv) {
		case 1:
			e.SetTag(kv[0], "")
		case 2:
			e.SetTag(kv[0], kv[1])
		}
	}
}

func (e *Env) DelTag(key string) { delete(e.tags, key) }

type NonXEnvKeys []string

func (e NonXEnvKeys) Error() string {
	return fmt.Sprintf("illegal exec env keys: %s", strings.Join(e, ", "))
}

func (NonXEnvKeys) Is(target error) bool {
	_, ok := target.(NonXEnvKeys)
	return ok
}

// ExecEnv returns the sorted KEY=value list for os/exec. Keys that cannot be
// passed to a process are left out and reported as NonXEnvKeys error.
func (e *Env) ExecEnv() (xenv []string, err error) {
	var errKeys []string
	for _, k := range slices.Sorted(maps.Keys(e.tags)) {
		switch {
		case k == "":
			errKeys = append(errKeys, `""`)
		case strings.ContainsRune(k, '='):
			errKeys = append(errKeys, k)
		default:
			xenv = append(xenv, k+"="+e.tags[k])
		}
	}
	if len(errKeys) > 0 {
		err = NonXEnvKeys(errKeys)
	}
	return xenv, err
}
