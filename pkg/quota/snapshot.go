package quota

import (
	"math"

	"github.com/dmitrymomot/tenantgate/pkg/plans"
)

// BytesPerMB converts storage limits, which plans express in MB, to bytes.
const BytesPerMB int64 = 1 << 20

// Snapshot is the usage of one organization at the moment it was counted.
// It is never cached across checks.
type Snapshot struct {
	Projects     int64 `json:"projects"`
	Users        int64 `json:"users"`
	StorageBytes int64 `json:"storage_bytes"`
	Buildings    int64 `json:"buildings"`
	Units        int64 `json:"units"`
}

// Used returns the usage of res in the unit its plan limit is expressed in.
// Storage is reported in whole MB, rounded up.
func (s Snapshot) Used(res plans.Resource) int64 {
	switch res {
	case plans.ResourceProjects:
		return s.Projects
	case plans.ResourceUsers:
		return s.Users
	case plans.ResourceStorage:
		return ceilDiv(s.StorageBytes, BytesPerMB)
	case plans.ResourceBuildings:
		return s.Buildings
	case plans.ResourceUnits:
		return s.Units
	}
	return 0
}

// raw returns usage in the comparison unit: bytes for storage, counts otherwise.
func (s Snapshot) raw(res plans.Resource) int64 {
	if res == plans.ResourceStorage {
		return s.StorageBytes
	}
	return s.Used(res)
}

func (s *Snapshot) set(res plans.Resource, v int64) {
	switch res {
	case plans.ResourceProjects:
		s.Projects = v
	case plans.ResourceUsers:
		s.Users = v
	case plans.ResourceStorage:
		s.StorageBytes = v
	case plans.ResourceBuildings:
		s.Buildings = v
	case plans.ResourceUnits:
		s.Units = v
	}
}

// rawLimit converts a plan limit to the comparison unit.
func rawLimit(res plans.Resource, limit int64) int64 {
	if res == plans.ResourceStorage && limit > 0 {
		if limit > math.MaxInt64/BytesPerMB {
			return math.MaxInt64
		}
		return limit * BytesPerMB
	}
	return limit
}

// fits reports whether adding amount to used stays within limit, all in the
// comparison unit. A count of one fits only while used < limit.
func fits(limit, used, amount int64) bool {
	if limit == plans.Unlimited {
		return true
	}
	if amount < 0 || used > math.MaxInt64-amount {
		return false
	}
	return used+amount <= limit
}

// Fits reports whether amount more of res fits limit given raw usage.
// limit is in plan units; used and amount are in bytes for storage.
func Fits(res plans.Resource, limit, used, amount int64) bool {
	return fits(rawLimit(res, limit), used, amount)
}

// MBToBytes converts a file size in MB to bytes, rounding up.
func MBToBytes(sizeMB float64) (int64, error) {
	if sizeMB < 0 || math.IsNaN(sizeMB) || math.IsInf(sizeMB, 0) {
		return 0, ErrInvalidAmount
	}
	b := math.Ceil(sizeMB * float64(BytesPerMB))
	if b >= math.MaxInt64 {
		return 0, ErrInvalidAmount
	}
	return int64(b), nil
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
