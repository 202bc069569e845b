package config

import "maps"

// MergeLocal merges a local per-repo config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	// Theme is global-only and inherited by the shallow copy.
	merged := *global
	merged.Branch.Types = append([]string(nil), global.Branch.Types...)

	// Merge hooks by name: local overrides/adds, enabled=false removes
	merged.Hooks = mergeHooks(global.Hooks, local.Hooks)

	setString(&merged.Upstream.Remote, local.Upstream.Remote)
	setString(&merged.Upstream.URL, local.Upstream.URL)
	setString(&merged.Upstream.Branch, local.Upstream.Branch)

	setString(&merged.Local.Branch, local.Local.Branch)
	setString(&merged.Local.Manifest, local.Local.Manifest)

	// Types replace rather than append: a repo narrows the list.
	if len(local.Branch.Types) > 0 {
		merged.Branch.Types = append([]string(nil), local.Branch.Types...)
	}
	setString(&merged.Branch.Base, local.Branch.Base)

	setString(&merged.Merge.Strategy, local.Merge.Strategy)
	if local.Merge.Push != nil {
		merged.Merge.Push = *local.Merge.Push
	}

	setString(&merged.PR.Repo, local.PR.Repo)
	if local.PR.Draft != nil {
		merged.PR.Draft = *local.PR.Draft
	}

	return &merged
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// mergeHooks merges local hooks into global hooks.
// Local hooks with the same name override global hooks.
// Local hooks with enabled=false remove the global hook.
func mergeHooks(global, local HooksConfig) HooksConfig {
	merged := HooksConfig{
		Hooks: make(map[string]Hook, len(global.Hooks)),
	}

	maps.Copy(merged.Hooks, global.Hooks)

	for name, hook := range local.Hooks {
		if !hook.IsEnabled() {
			delete(merged.Hooks, name)
			continue
		}
		merged.Hooks[name] = hook
	}

	return merged
}
