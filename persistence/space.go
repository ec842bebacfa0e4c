package persistence

import (
	"github.com/ricochet2200/go-disk-usage/du"
)

// MinFreeSpace is the free space below which opening an output file logs a warning.
const MinFreeSpace = 64 << 20

// AvailableSpace returns the number of bytes available to the user on the volume holding path.
func AvailableSpace(path string) uint64 {
	usage := du.NewDiskUsage(path)
	return usage.Available()
}
