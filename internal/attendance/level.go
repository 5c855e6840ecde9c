package attendance

import "github.com/Freeeeeet/studio_scheduler/internal/model"

// ClassLevelRank максимальный уровень среди присутствующих или model.NoLevelRank для пустого класса
func ClassLevelRank(present []*model.Student) int {
	rank := model.NoLevelRank
	for _, s := range present {
		if r := s.Level.Rank(); r > rank {
			rank = r
		}
	}
	return rank
}

// IsLevelCompatible подходит ли кандидатка классу: не более чем на один уровень ниже.
// Только предупреждение, запись не блокирует.
func IsLevelCompatible(candidate model.Level, classRank int) bool {
	if classRank == model.NoLevelRank {
		return true
	}
	return candidate.Rank() >= classRank-1
}
