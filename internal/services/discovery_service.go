package services

import (
	"context"
	"sort"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/repositories"
)

// DiscoveryConfig sizes the discovery queries
type DiscoveryConfig struct {
	MatchPageSize      int
	TrendingSampleSize int
	TrendingTopN       int
	RecentMembers      int
}

// DefaultDiscoveryConfig mirrors the sizes the discover page shows
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		MatchPageSize:      6,
		TrendingSampleSize: 100,
		TrendingTopN:       5,
		RecentMembers:      6,
	}
}

// SkillCount is a skill and how many sampled open requests need it
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// DiscoveryService matches members to open requests and surfaces demand
type DiscoveryService struct {
	requests repositories.RequestRepository
	skills   repositories.SkillRepository
	profiles repositories.ProfileRepository
	cfg      DiscoveryConfig
}

func NewDiscoveryService(requests repositories.RequestRepository, skills repositories.SkillRepository, profiles repositories.ProfileRepository, cfg DiscoveryConfig) *DiscoveryService {
	def := DefaultDiscoveryConfig()
	if cfg.MatchPageSize <= 0 {
		cfg.MatchPageSize = def.MatchPageSize
	}
	if cfg.TrendingSampleSize <= 0 {
		cfg.TrendingSampleSize = def.TrendingSampleSize
	}
	if cfg.TrendingTopN <= 0 {
		cfg.TrendingTopN = def.TrendingTopN
	}
	if cfg.RecentMembers <= 0 {
		cfg.RecentMembers = def.RecentMembers
	}
	return &DiscoveryService{requests: requests, skills: skills, profiles: profiles, cfg: cfg}
}

// MatchingRequests returns open requests, not posted by the caller, whose
// needed skill is one the caller offers. A caller with no skills gets an
// empty list.
func (s *DiscoveryService) MatchingRequests(ctx context.Context, sess Session) ([]models.Request, error) {
	names, err := s.skills.GetUserSkillNames(ctx, sess.UserID)
	if err != nil {
		return nil, storeErr("user skills", err)
	}
	if len(names) == 0 {
		return []models.Request{}, nil
	}

	reqs, err := s.requests.GetOpenRequestsBySkills(ctx, names, sess.UserID, s.cfg.MatchPageSize)
	if err != nil {
		return nil, storeErr("requests", err)
	}
	return reqs, nil
}

// TrendingSkills tallies the skills needed by the most recent open requests
func (s *DiscoveryService) TrendingSkills(ctx context.Context) ([]SkillCount, error) {
	sample, err := s.requests.GetRecentOpenSkills(ctx, s.cfg.TrendingSampleSize)
	if err != nil {
		return nil, storeErr("requests", err)
	}
	return TallySkills(sample, s.cfg.TrendingTopN), nil
}

// RecentMembers returns the newest profiles other than the caller's
func (s *DiscoveryService) RecentMembers(ctx context.Context, sess Session) ([]models.ProfileCompact, error) {
	profiles, err := s.profiles.GetRecentProfiles(ctx, sess.UserID, s.cfg.RecentMembers)
	if err != nil {
		return nil, storeErr("profiles", err)
	}
	out := make([]models.ProfileCompact, len(profiles))
	for i := range profiles {
		out[i] = profiles[i].ToCompact()
	}
	return out, nil
}

// TallySkills counts occurrences and returns the n most frequent, highest
// count first. Ties keep the order in which skills first appear in sample.
// Empty skill names are ignored.
func TallySkills(sample []string, n int) []SkillCount {
	counts := make([]SkillCount, 0)
	index := make(map[string]int)
	for _, skill := range sample {
		if skill == "" {
			continue
		}
		if i, ok := index[skill]; ok {
			counts[i].Count++
			continue
		}
		index[skill] = len(counts)
		counts = append(counts, SkillCount{Skill: skill, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
