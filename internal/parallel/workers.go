package parallel

import "runtime"

// TaskType describes what bounds a workload.
type TaskType string

const (
	CPUBound       TaskType = "cpu-bound"
	IOBound        TaskType = "io-bound"
	FileProcessing TaskType = "file-processing"
)

// CalculateWorkers sizes a pool for numItems items of the given type. The
// result is never larger than numItems and is 0 only when numItems is 0.
func CalculateWorkers(numItems int, taskType TaskType) int {
	if numItems <= 0 {
		return 0
	}

	cores := runtime.NumCPU()
	var n int
	switch taskType {
	case CPUBound:
		n = cores
	case IOBound:
		n = min(cores*4, 50)
	default:
		n = cores * 2
	}

	return max(1, min(n, numItems))
}
