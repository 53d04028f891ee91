// Package xp holds the leveling math: XP awards per contribution type,
// level thresholds and streak arithmetic. Everything here is pure.
package xp

// XP awarded per activity.
const (
	CommitXP      = 10
	PullRequestXP = 50
	IssueXP       = 25
	NewProjectXP  = 100
)

// MaxLevel caps the level curve.
const MaxLevel = 100

// ForContribution returns the XP award for a contribution type, zero for
// unknown types.
func ForContribution(contributionType string) int {
	switch contributionType {
	case "commit":
		return CommitXP
	case "pull_request":
		return PullRequestXP
	case "issue":
		return IssueXP
	case "new_project":
		return NewProjectXP
	default:
		return 0
	}
}

// Total computes total XP from contribution counts.
func Total(commits, pullRequests, issues, projects int) int {
	return commits*CommitXP + pullRequests*PullRequestXP + issues*IssueXP + projects*NewProjectXP
}

// Threshold is the XP band of one level: Min inclusive, Max exclusive.
type Threshold struct {
	Min int
	Max int
}

var baseThresholds = map[int]Threshold{
	1: {0, 1000},
	2: {1000, 2500},
	3: {2500, 5000},
	4: {5000, 10000},
	5: {10000, 20000},
}

// LevelThreshold returns the XP band for a level. Levels past 5 grow by
// half again per level.
func LevelThreshold(level int) Threshold {
	if t, ok := baseThresholds[level]; ok {
		return t
	}

	max := float64(baseThresholds[5].Max)
	for l := 6; l <= level; l++ {
		max *= 1.5
	}
	prev := LevelThreshold(level - 1)
	return Threshold{Min: prev.Max, Max: int(max)}
}

// LevelForXP maps total XP onto a level, capped at MaxLevel.
func LevelForXP(totalXP int) int {
	for level := 1; level <= MaxLevel; level++ {
		if totalXP < LevelThreshold(level).Max {
			return level
		}
	}
	return MaxLevel
}

// ToNextLevel returns the XP still needed to leave the current level.
func ToNextLevel(currentXP, currentLevel int) int {
	remaining := LevelThreshold(currentLevel).Max - currentXP
	if remaining < 0 {
		return 0
	}
	return remaining
}
