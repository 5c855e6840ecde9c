package state

import (
	"sync"
)

// Manager хранит диалоги по chatID. Диалоги живут только в памяти процесса.
type Manager struct {
	mu      sync.RWMutex
	dialogs map[int64]*Dialog
}

func NewManager() *Manager {
	return &Manager{
		dialogs: make(map[int64]*Dialog),
	}
}

// GetState текущий шаг диалога чата
func (m *Manager) GetState(chatID int64) DialogState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if d, ok := m.dialogs[chatID]; ok {
		return d.State
	}
	return StateNone
}

// SetState переводит диалог на шаг; StateNone завершает диалог
func (m *Manager) SetState(chatID int64, state DialogState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state == StateNone {
		delete(m.dialogs, chatID)
		return
	}
	m.dialogLocked(chatID).State = state
}

// Get значение, введённое на одном из шагов
func (m *Manager) Get(chatID int64, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.dialogs[chatID]
	if !ok {
		return "", false
	}
	v, ok := d.Data[key]
	return v, ok
}

// Set сохраняет значение шага и переводит диалог на следующий шаг
func (m *Manager) Set(chatID int64, key, value string, next DialogState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.dialogLocked(chatID)
	d.Data[key] = value
	d.State = next
}

// Clear завершает диалог и забывает введённые данные
func (m *Manager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.dialogs, chatID)
}

// Data копия всех введённых значений
func (m *Manager) Data(chatID int64) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.dialogs[chatID]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(d.Data))
	for k, v := range d.Data {
		out[k] = v
	}
	return out
}

func (m *Manager) dialogLocked(chatID int64) *Dialog {
	d, ok := m.dialogs[chatID]
	if !ok {
		d = &Dialog{Data: make(map[string]string)}
		m.dialogs[chatID] = d
	}
	return d
}
