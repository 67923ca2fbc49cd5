package engine

import (
	"context"

	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/types"
)

// Profiles returns every stored profile sorted by name.
func (e *Engine) Profiles() []types.NetworkProfile {
	return e.store.Profiles()
}

// Profile resolves a profile by id or name.
func (e *Engine) Profile(ref string) (types.NetworkProfile, error) {
	return e.store.Resolve(ref)
}

// Interfaces lists the live interfaces.
func (e *Engine) Interfaces(ctx context.Context) ([]types.InterfaceSnapshot, error) {
	return e.inventory.ListInterfaces(ctx)
}

// CreateProfile stores a new profile.
func (e *Engine) CreateProfile(p types.NetworkProfile) (types.NetworkProfile, error) {
	return persist(e, func() (types.NetworkProfile, error) {
		return e.store.Create(p)
	})
}

// UpdateProfile replaces the settings of the referenced profile; its id is kept.
func (e *Engine) UpdateProfile(ref string, p types.NetworkProfile) (types.NetworkProfile, error) {
	return persist(e, func() (types.NetworkProfile, error) {
		current, err := e.store.Resolve(ref)
		if err != nil {
			return types.NetworkProfile{}, err
		}
		return e.store.Update(current.ID, p)
	})
}

// RenameProfile changes the name of the referenced profile.
func (e *Engine) RenameProfile(ref, name string) (types.NetworkProfile, error) {
	return persist(e, func() (types.NetworkProfile, error) {
		current, err := e.store.Resolve(ref)
		if err != nil {
			return types.NetworkProfile{}, err
		}
		return e.store.Rename(current.ID, name)
	})
}

// DeleteProfile removes the referenced profile. No interface is touched.
func (e *Engine) DeleteProfile(ref string) (types.NetworkProfile, error) {
	return persist(e, func() (types.NetworkProfile, error) {
		current, err := e.store.Resolve(ref)
		if err != nil {
			return types.NetworkProfile{}, err
		}
		return current, e.store.Delete(current.ID)
	})
}

// ImportProfiles adds the profiles of an exchange file to the store.
func (e *Engine) ImportProfiles(path string) ([]types.NetworkProfile, error) {
	return persist(e, func() ([]types.NetworkProfile, error) {
		return e.store.Import(path)
	})
}

// ExportProfiles writes the referenced profiles, or all of them when no
// reference is given, to an exchange file and returns its path.
func (e *Engine) ExportProfiles(path string, refs ...string) (string, error) {
	profiles := e.store.Profiles()
	if len(refs) > 0 {
		profiles = profiles[:0]
		for _, ref := range refs {
			p, err := e.store.Resolve(ref)
			if err != nil {
				return "", err
			}
			profiles = append(profiles, p)
		}
	}
	return e.store.Export(path, profiles)
}

// SuggestInterfaces returns the live interfaces selected by the match hint of
// the referenced profile.
func (e *Engine) SuggestInterfaces(ctx context.Context, ref string) ([]types.InterfaceSnapshot, error) {
	p, err := e.store.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return e.inventory.Suggest(ctx, p.Match)
}

// persist runs one store mutation and saves the result. If saving fails the
// in-memory mapping is reloaded from disk so it never diverges from it.
func persist[T any](e *Engine, mutate func() (T, error)) (T, error) {
	e.storeMu.Lock()
	defer e.storeMu.Unlock()

	out, err := mutate()
	if err != nil {
		return out, err
	}
	if err := e.store.Persist(); err != nil {
		if _, reloadErr := e.store.Load(); reloadErr != nil {
			logging.WithComponent("engine").WithError(reloadErr).Error("Failed to reload profiles after a failed save")
		}
		var zero T
		return zero, err
	}
	return out, nil
}
