package config

import (
	"os"
	"strings"
)

// EnvSource 环境变量数据源
//
// Without explicit bindings, PREFIX_SECTION_KEY maps to section.key: the first
// underscore after the prefix separates the section, the rest is kept, so
// CALCUL_LOGGER_ENABLE_CONSOLE becomes logger.enable_console.
type EnvSource struct {
	prefix   string
	priority int
	bindings map[string]string // 配置 key -> 环境变量名
}

// NewEnvSource 创建环境变量数据源
func NewEnvSource(prefix string, priority int) *EnvSource {
	return &EnvSource{
		prefix:   prefix,
		priority: priority,
		bindings: make(map[string]string),
	}
}

// AddBinding binds a key to an explicit variable name, e.g. ("dao.value", "DAO_VALUE").
// With bindings present only bound variables are read.
func (s *EnvSource) AddBinding(key, envKey string) {
	s.bindings[key] = envKey
}

// Name 数据源名称
func (s *EnvSource) Name() string {
	return "env:" + s.prefix
}

// Priority 优先级
func (s *EnvSource) Priority() int {
	return s.priority
}

// Load 加载环境变量配置
func (s *EnvSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{})

	if len(s.bindings) > 0 {
		for key, envKey := range s.bindings {
			if s.prefix != "" && !strings.HasPrefix(envKey, s.prefix+"_") {
				envKey = s.prefix + "_" + envKey
			}
			if value := os.Getenv(envKey); value != "" {
				result[key] = value
			}
		}
		return result, nil
	}

	if s.prefix == "" {
		return result, nil
	}

	prefix := s.prefix + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		if key := envKeyToConfigKey(strings.TrimPrefix(name, prefix)); key != "" {
			result[key] = value
		}
	}

	return result, nil
}

// envKeyToConfigKey DAO_VALUE -> dao.value, LOGGER_ENABLE_FILE -> logger.enable_file
func envKeyToConfigKey(name string) string {
	name = strings.ToLower(name)
	section, rest, ok := strings.Cut(name, "_")
	if !ok || section == "" || rest == "" {
		return name
	}
	return section + "." + rest
}
