//go:build windows

package winreg

import (
	"errors"
	"fmt"

	"netprofiler/internal/port"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

func classify(err error) error {
	switch {
	case errors.Is(err, registry.ErrNotExist):
		return fmt.Errorf("%w: %w", port.ErrRegistryValueNotFound, err)
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return fmt.Errorf("%w: %w", port.ErrAccessDenied, err)
	}
	return err
}

func open(path string, access uint32) (registry.Key, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, access)
	if err != nil {
		return 0, fmt.Errorf("failed to open registry key %s: %w", path, classify(err))
	}
	return k, nil
}

// SubKeyNames lists the sub keys of path.
func (r *RegistryAdapter) SubKeyNames(path string) ([]string, error) {
	k, err := open(path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, err
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", path, classify(err))
	}
	return names, nil
}

// GetString reads a REG_SZ value.
func (r *RegistryAdapter) GetString(path, name string) (string, error) {
	k, err := open(path, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer k.Close()

	v, _, err := k.GetStringValue(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s\\%s: %w", path, name, classify(err))
	}
	return v, nil
}

// GetStrings reads a REG_MULTI_SZ value.
func (r *RegistryAdapter) GetStrings(path, name string) ([]string, error) {
	k, err := open(path, registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}
	defer k.Close()

	v, _, err := k.GetStringsValue(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s\\%s: %w", path, name, classify(err))
	}
	return v, nil
}

// GetInteger reads a REG_DWORD value.
func (r *RegistryAdapter) GetInteger(path, name string) (uint64, error) {
	k, err := open(path, registry.QUERY_VALUE)
	if err != nil {
		return 0, err
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue(name)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s\\%s: %w", path, name, classify(err))
	}
	return v, nil
}

// SetString writes a REG_SZ value.
func (r *RegistryAdapter) SetString(path, name, value string) error {
	k, err := open(path, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	if err := k.SetStringValue(name, value); err != nil {
		return fmt.Errorf("failed to write %s\\%s: %w", path, name, classify(err))
	}
	return nil
}

// SetStrings writes a REG_MULTI_SZ value.
func (r *RegistryAdapter) SetStrings(path, name string, values []string) error {
	k, err := open(path, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	if err := k.SetStringsValue(name, values); err != nil {
		return fmt.Errorf("failed to write %s\\%s: %w", path, name, classify(err))
	}
	return nil
}

// SetDWord writes a REG_DWORD value.
func (r *RegistryAdapter) SetDWord(path, name string, value uint32) error {
	k, err := open(path, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	if err := k.SetDWordValue(name, value); err != nil {
		return fmt.Errorf("failed to write %s\\%s: %w", path, name, classify(err))
	}
	return nil
}
