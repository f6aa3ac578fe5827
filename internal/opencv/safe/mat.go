// Package safe owns OpenCV matrices so every one of them is released once.
package safe

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"gocv.io/x/gocv"
)

// ErrClosed is returned when a closed Mat is used
var ErrClosed = errors.New("mat already closed")

// Mat owns a gocv.Mat. Close releases it; a finalizer releases it if Close
// is never called.
type Mat struct {
	mu     sync.RWMutex
	mat    gocv.Mat
	closed bool
}

// Own takes a private copy of src. The caller still closes src.
func Own(src gocv.Mat) (*Mat, error) {
	if src.Empty() || src.Rows() <= 0 || src.Cols() <= 0 {
		return nil, fmt.Errorf("cannot own an empty %dx%d Mat", src.Cols(), src.Rows())
	}

	clone := src.Clone()
	if clone.Empty() {
		clone.Close()
		return nil, fmt.Errorf("failed to copy %dx%d Mat", src.Cols(), src.Rows())
	}

	m := &Mat{mat: clone}
	runtime.SetFinalizer(m, (*Mat).Close)
	return m, nil
}

func (m *Mat) IsValid() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.closed
}

// Size returns cols, rows and channels; zero once closed
func (m *Mat) Size() (cols, rows, channels int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed || m.mat.Empty() {
		return 0, 0, 0
	}
	return m.mat.Cols(), m.mat.Rows(), m.mat.Channels()
}

func (m *Mat) Rows() int {
	_, rows, _ := m.Size()
	return rows
}

func (m *Mat) Cols() int {
	cols, _, _ := m.Size()
	return cols
}

func (m *Mat) Channels() int {
	_, _, channels := m.Size()
	return channels
}

// Use runs fn with the underlying Mat while holding a read lock, so the Mat
// cannot be closed under fn. fn must not keep the Mat.
func (m *Mat) Use(fn func(gocv.Mat) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return fn(m.mat)
}

func (m *Mat) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.mat.Close()
	runtime.SetFinalizer(m, nil)
}
