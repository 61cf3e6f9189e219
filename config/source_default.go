package config

// DefaultSource built-in values, the lowest priority source
type DefaultSource struct {
	values   map[string]interface{}
	priority int
}

// NewDefaultSource creates a source from a nested or flat map
func NewDefaultSource(values map[string]interface{}, priority int) *DefaultSource {
	return &DefaultSource{values: values, priority: priority}
}

// Name 数据源名称
func (s *DefaultSource) Name() string {
	return "defaults"
}

// Priority 优先级
func (s *DefaultSource) Priority() int {
	return s.priority
}

// Load returns the flattened defaults
func (s *DefaultSource) Load() (map[string]interface{}, error) {
	return flattenMap("", s.values), nil
}
