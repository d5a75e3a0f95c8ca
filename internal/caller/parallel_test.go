package caller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunPositionsOrderPreservation(t *testing.T) {
	jobs := make([]positionJob, 200)
	for i := range jobs {
		jobs[i] = positionJob{Seq: i, AbsPos: 1 + 3*i}
	}

	results := runPositions(jobs, 8, func(j positionJob) positionResult {
		return positionResult{Seq: j.Seq, Job: j}
	})

	var collected []int
	collectOrdered(results, func(r positionResult) {
		collected = append(collected, r.Seq)
	})

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestRunPositionsSingleWorker(t *testing.T) {
	jobs := make([]positionJob, 50)
	for i := range jobs {
		jobs[i] = positionJob{Seq: i}
	}

	results := runPositions(jobs, 1, func(j positionJob) positionResult {
		return positionResult{Seq: j.Seq}
	})

	count := 0
	collectOrdered(results, func(r positionResult) { count++ })
	assert.Equal(t, 50, count)
}

func TestRunPositionsEmpty(t *testing.T) {
	results := runPositions(nil, 4, func(j positionJob) positionResult {
		return positionResult{Seq: j.Seq}
	})

	count := 0
	collectOrdered(results, func(r positionResult) { count++ })
	assert.Equal(t, 0, count)
}
