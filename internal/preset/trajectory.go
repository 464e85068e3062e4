package preset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clbtools/clbtools/internal/props"
)

// SaveTrajectory stores t as JSON under props.KeyTrajectoryData.
func SaveTrajectory(ctx context.Context, store props.Store, t Trajectory) error {
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode trajectory: %w", err)
	}
	return store.Set(ctx, props.KeyTrajectoryData, string(b))
}

// LoadTrajectory reads the stored trajectory or returns ErrTrajectoryMissing.
func LoadTrajectory(ctx context.Context, store props.Store) (Trajectory, error) {
	var t Trajectory
	raw, ok, err := store.Get(ctx, props.KeyTrajectoryData)
	if err != nil {
		return t, err
	}
	if !ok || raw == "" {
		return t, ErrTrajectoryMissing
	}
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return t, fmt.Errorf("decode trajectory: %w", err)
	}
	return t, nil
}
