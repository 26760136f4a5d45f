package config

// Merge deep-merges override onto general. Mapping nodes merge key by key at
// any depth; every other node in override replaces the general node, so
// sequences are replaced wholesale. Neither input is modified.
func Merge(general, override Value) Value {
	if general.kind != KindMap || override.kind != KindMap {
		return override
	}

	out := make(map[string]Value, len(general.m)+len(override.m))
	for k, v := range general.m {
		out[k] = v
	}
	for k, v := range override.m {
		if existing, ok := out[k]; ok {
			out[k] = Merge(existing, v)
			continue
		}
		out[k] = v
	}
	return Value{kind: KindMap, m: out}
}

// MergeAll folds Merge over values from left to right
func MergeAll(values ...Value) Value {
	out := EmptyMap()
	for _, v := range values {
		out = Merge(out, v)
	}
	return out
}

// MergeMissing adds to base only the keys absent from it, recursing into
// mappings present on both sides. Existing values in base always win.
func MergeMissing(base, addition Value) Value {
	if base.kind == KindNull {
		return addition
	}
	if base.kind != KindMap || addition.kind != KindMap {
		return base
	}

	out := make(map[string]Value, len(base.m)+len(addition.m))
	for k, v := range base.m {
		out[k] = v
	}
	for k, v := range addition.m {
		existing, ok := out[k]
		if !ok || existing.kind == KindNull {
			out[k] = v
			continue
		}
		out[k] = MergeMissing(existing, v)
	}
	return Value{kind: KindMap, m: out}
}

// Namespace returns the configuration seen by one phase: every top-level
// namespace key in namespaces is stripped from project, then project[name]
// is merged on top. Namespaces of other phases never leak.
func Namespace(project Value, name string, namespaces []string) Value {
	general := project.Without(namespaces...)
	general = general.Without(name)
	override, ok := project.Field(name)
	if !ok {
		return general
	}
	return Merge(general, override)
}
