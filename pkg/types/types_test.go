package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpKind_Predicates(t *testing.T) {
	assert.True(t, OpAlloc.IsAlloc())
	assert.True(t, OpAllocAsync.IsAlloc())
	assert.False(t, OpDelete.IsAlloc())

	assert.True(t, OpDelete.IsDelete())
	assert.True(t, OpDeleteAsync.IsDelete())

	assert.True(t, OpTransferToDevice.IsTransferTo())
	assert.True(t, OpTransferToDevice.IsTransfer())
	assert.True(t, OpTransferFromDevice.IsTransferFrom())
	assert.True(t, OpTransferFromDevice.IsTransfer())
	assert.False(t, OpAlloc.IsTransfer())

	assert.True(t, OpAllocAsync.IsAsync())
	assert.True(t, OpTransferToDeviceAsync.IsAsync())
	assert.False(t, OpAlloc.IsAsync())
}

func TestOpKind_Valid(t *testing.T) {
	assert.True(t, OpDisassociate.Valid())
	assert.False(t, OpKind(255).Valid())
}

func TestHostDeviceID(t *testing.T) {
	assert.Equal(t, 4, HostDeviceID(4))
}
