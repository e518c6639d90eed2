package differ

// GateOption configures Gate's destructive-operation policy (§4.5).
type GateOption func(*gateConfig)

type gateConfig struct {
	allowDestructive bool
}

// AllowDestructive lets destructive operations (dropTable, dropColumn,
// dropForeignKey, alterColumnType) through to the primary migration
// instead of being replaced by a fallback stanza.
func AllowDestructive() GateOption {
	return func(c *gateConfig) { c.allowDestructive = true }
}

// GateResult splits a diff's operations into those safe to apply
// directly and those a migration emitter must instead render as a
// fallback stanza (§4.5).
type GateResult struct {
	Apply    []*Operation
	Fallback []*Operation
}

// Gate partitions ops by destructiveness, honoring the caller's
// allowDestructive policy. An op with Kind.Destructive() true is routed
// to Fallback unless AllowDestructive was passed.
func Gate(ops []*Operation, opts ...GateOption) *GateResult {
	cfg := &gateConfig{}
	for _, o := range opts {
		o(cfg)
	}
	result := &GateResult{}
	for _, op := range ops {
		if op.Kind.Destructive() && !cfg.allowDestructive {
			result.Fallback = append(result.Fallback, op)
			continue
		}
		result.Apply = append(result.Apply, op)
	}
	return result
}
