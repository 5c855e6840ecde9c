package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerDialogFlow(t *testing.T) {
	m := NewManager()
	assert.Equal(t, StateNone, m.GetState(1))

	m.SetState(1, StateNewStudentName)
	m.Set(1, KeyName, "Lucia", StateNewStudentSurname)
	assert.Equal(t, StateNewStudentSurname, m.GetState(1))

	name, ok := m.Get(1, KeyName)
	assert.True(t, ok)
	assert.Equal(t, "Lucia", name)

	data := m.Data(1)
	data[KeyName] = "changed"
	name, _ = m.Get(1, KeyName)
	assert.Equal(t, "Lucia", name)

	assert.Equal(t, StateNone, m.GetState(2))
	assert.Nil(t, m.Data(2))

	m.SetState(1, StateNone)
	_, ok = m.Get(1, KeyName)
	assert.False(t, ok)
}

func TestManagerClear(t *testing.T) {
	m := NewManager()
	m.Set(5, KeyPhone, "11223344", StateNewStudentLevel)
	m.Clear(5)

	assert.Equal(t, StateNone, m.GetState(5))
	assert.Nil(t, m.Data(5))
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := int64(0); i < 20; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			m.Set(chatID, KeyName, "x", StateNewStudentSurname)
			_ = m.GetState(chatID)
			_ = m.Data(chatID)
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 20; i++ {
		assert.Equal(t, StateNewStudentSurname, m.GetState(i))
	}
}
