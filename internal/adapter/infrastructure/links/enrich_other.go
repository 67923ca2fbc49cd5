//go:build !linux

package links

import "netprofiler/internal/types"

func enrichLink(link *types.Link) {}
