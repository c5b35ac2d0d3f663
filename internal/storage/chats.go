package storage

import "sync"

// ChatStorage is the set of chats registered for scheduled broadcasts.
// Registrations are kept in memory only and are lost on restart.
type ChatStorage struct {
	mu    sync.RWMutex
	chats map[int64]struct{}
}

// NewChatStorage creates an empty ChatStorage.
func NewChatStorage() *ChatStorage {
	return &ChatStorage{
		chats: make(map[int64]struct{}),
	}
}

// Add registers a chat. It returns false if the chat was already registered.
func (s *ChatStorage) Add(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[chatID]; ok {
		return false
	}

	s.chats[chatID] = struct{}{}
	return true
}

// All returns the registered chat ids. Order is not specified.
func (s *ChatStorage) All() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.chats))
	for id := range s.chats {
		ids = append(ids, id)
	}
	return ids
}
