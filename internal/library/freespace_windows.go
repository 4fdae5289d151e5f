//go:build windows

package library

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func diskSpace(path string) (Space, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return Space{}, fmt.Errorf("encode path %s: %w", path, err)
	}
	var free, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(p, &free, &total, &totalFree); err != nil {
		return Space{}, fmt.Errorf("disk free space %s: %w", path, err)
	}
	return Space{Free: free, Total: total}, nil
}
