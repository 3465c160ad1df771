package sh

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"

	mq "github.com/dayrise/dayrise.go/pkg/mqtt"
	"github.com/dayrise/dayrise.go/pkg/telemetry"
)

// DefaultDiscoverTimeout is how long retained metas are collected.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Discover lists display nodes by their retained meta.
func Discover(ctx context.Context, brokerURL string, timeout time.Duration) ([]telemetry.NodeMeta, error) {
	q, err := mq.NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	var (
		lock  sync.Mutex
		metas = make(map[string]telemetry.NodeMeta)
	)
	q.Sub(telemetry.MetaTopic("+"), func(topic string, payload []byte) {
		if len(payload) == 0 {
			return
		}
		var meta telemetry.NodeMeta
		if err := json.Unmarshal(payload, &meta); err != nil {
			glog.Warningf("%s: bad meta: %v", topic, err)
			return
		}
		if meta.Device == "" {
			meta.Device = strings.TrimSuffix(topic, "/meta")
		}
		lock.Lock()
		metas[meta.Device] = meta
		lock.Unlock()
	})
	if err := mq.Await(q.Connect(), SendTimeout); err != nil {
		return nil, err
	}
	defer q.Close()

	if timeout <= 0 {
		timeout = DefaultDiscoverTimeout
	}
	select {
	case <-time.After(timeout):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	lock.Lock()
	defer lock.Unlock()
	res := make([]telemetry.NodeMeta, 0, len(metas))
	for _, meta := range metas {
		res = append(res, meta)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Device < res[j].Device })
	return res, nil
}
