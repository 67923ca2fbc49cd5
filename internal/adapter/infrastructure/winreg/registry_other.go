//go:build !windows

package winreg

import "netprofiler/internal/port"

// SubKeyNames is only available on Windows.
func (r *RegistryAdapter) SubKeyNames(path string) ([]string, error) {
	return nil, port.ErrNotSupported
}

// GetString is only available on Windows.
func (r *RegistryAdapter) GetString(path, name string) (string, error) {
	return "", port.ErrNotSupported
}

// GetStrings is only available on Windows.
func (r *RegistryAdapter) GetStrings(path, name string) ([]string, error) {
	return nil, port.ErrNotSupported
}

// GetInteger is only available on Windows.
func (r *RegistryAdapter) GetInteger(path, name string) (uint64, error) {
	return 0, port.ErrNotSupported
}

// SetString is only available on Windows.
func (r *RegistryAdapter) SetString(path, name, value string) error {
	return port.ErrNotSupported
}

// SetStrings is only available on Windows.
func (r *RegistryAdapter) SetStrings(path, name string, values []string) error {
	return port.ErrNotSupported
}

// SetDWord is only available on Windows.
func (r *RegistryAdapter) SetDWord(path, name string, value uint32) error {
	return port.ErrNotSupported
}
