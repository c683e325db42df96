package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/abielcoin/abiel-api/app/repository"
	"github.com/abielcoin/abiel-api/internal/pkg/cache"
)

const (
	CacheKeyParticipants = "statistics:contest:participants"
	CacheKeyPaidOut      = "statistics:airdrop:paid_out"
	CacheExpiration      = 30 * time.Minute
)

// StatisticsData holds the public site statistics.
type StatisticsData struct {
	ContestParticipants int64  `json:"contest_participants"`
	TokensPaidOut       uint64 `json:"tokens_paid_out"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// GetStatistics returns the current site statistics, refreshing the cached
// values at most every few minutes. The stats page tolerates staleness; the
// database does not need a COUNT per page view.
func GetStatistics() StatisticsData {
	updateCacheIfNeeded()

	data := StatisticsData{}
	if v, err := cache.Get(CacheKeyParticipants); err == nil {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			data.ContestParticipants = n
		}
	}
	if v, err := cache.Get(CacheKeyPaidOut); err == nil {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			data.TokensPaidOut = n
		}
	}
	return data
}

func updateCacheIfNeeded() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()
	if time.Since(lastCacheUpdate) < cacheUpdateInterval {
		return
	}

	if err := refreshCache(); err != nil {
		log.Printf("Failed to refresh statistics cache: %v", err)
		return
	}
	lastCacheUpdate = time.Now()
}

func refreshCache() error {
	repos := repository.GetGlobalRepositories()

	participants, err := repos.Guess.Count()
	if err != nil {
		return err
	}
	paidOut, err := repos.Settlement.TotalPaidOut()
	if err != nil {
		return err
	}

	if err := cache.Set(CacheKeyParticipants, strconv.FormatInt(participants, 10), CacheExpiration); err != nil {
		return err
	}
	return cache.Set(CacheKeyPaidOut, strconv.FormatUint(paidOut, 10), CacheExpiration)
}
