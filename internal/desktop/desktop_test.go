package desktop

import (
	"testing"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAPIName(t *testing.T) {
	assert.Equal(t, "native", apiName(glfw.NativeContextAPI))
	assert.Equal(t, "egl", apiName(glfw.EGLContextAPI))
	assert.Equal(t, "api(7)", apiName(7))
}

func TestBoolHint(t *testing.T) {
	assert.Equal(t, glfw.True, boolHint(true))
	assert.Equal(t, glfw.False, boolHint(false))
}

func TestInfoLog(t *testing.T) {
	msg := "ERROR: 0:3: 'x' : undeclared identifier\x00"
	got := infoLog(int32(len(msg)), func(n int32, dst *uint8) {
		buf := unsafe.Slice(dst, int(n))
		copy(buf, msg)
	})
	assert.Equal(t, "ERROR: 0:3: 'x' : undeclared identifier", got)

	called := false
	assert.Empty(t, infoLog(0, func(int32, *uint8) { called = true }))
	assert.False(t, called)
}

func TestCreationOrder(t *testing.T) {
	assert.Equal(t, []int{glfw.NativeContextAPI, glfw.EGLContextAPI}, creationAPIs)
}

func TestPostAfterTerminate(t *testing.T) {
	h := &Host{log: zap.NewNop(), surfaces: make(map[string]*Surface)}
	h.Terminate()

	ran := false
	assert.NotPanics(t, func() {
		assert.False(t, h.Post(func() { ran = true }))
	})
	h.drain()
	assert.False(t, ran)
	assert.Empty(t, h.tasks)

	// A second Terminate is a no-op.
	assert.NotPanics(t, h.Terminate)
}
