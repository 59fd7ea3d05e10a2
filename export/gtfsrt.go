// Package export republishes snapshots as a GTFS-Realtime
// VehiclePositions feed, letting standard transit tooling consume the
// simulation as if it were a real operator. Simulation coordinates are
// emitted directly as latitude/longitude; consumers of this feed are
// expected to treat them as a local planar frame.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/transport-telemetry/simtelemetry/snapshot"
)

// FeedSink writes a protobuf FeedMessage next to every snapshot.
// Implements pipeline.Sink.
type FeedSink struct {
	Path string

	// now is swappable for tests.
	now func() time.Time
}

// NewFeedSink creates a sink writing the feed to path.
func NewFeedSink(path string) *FeedSink {
	return &FeedSink{Path: path, now: time.Now}
}

func (s *FeedSink) Write(doc *snapshot.Document, _ []byte) error {
	fm := BuildFeed(doc, s.now().UTC())
	b, err := proto.Marshal(fm)
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".feed-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp feed file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close feed: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.Path, err)
	}
	return nil
}

// BuildFeed converts one snapshot into a full-dataset VehiclePositions
// FeedMessage.
func BuildFeed(doc *snapshot.Document, now time.Time) *gtfsrtpb.FeedMessage {
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      gtfsrtpb.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(uint64(now.Unix())),
		},
	}
	for i := range doc.Vehicles {
		fm.Entity = append(fm.Entity, vehicleEntity(&doc.Vehicles[i], now))
	}
	return fm
}

func vehicleEntity(v *snapshot.Vehicle, now time.Time) *gtfsrtpb.FeedEntity {
	id := strconv.FormatInt(v.ID, 10)
	pos := &gtfsrtpb.Position{
		Latitude:  proto.Float32(float32(v.Pos.Y)),
		Longitude: proto.Float32(float32(v.Pos.X)),
		Speed:     proto.Float32(float32(v.SpeedKMH / 3.6)),
	}
	vp := &gtfsrtpb.VehiclePosition{
		Vehicle: &gtfsrtpb.VehicleDescriptor{
			Id:    proto.String(id),
			Label: proto.String(v.Name),
		},
		Position:  pos,
		Timestamp: proto.Uint64(uint64(now.Unix())),
	}
	if v.LineID != 0 {
		vp.Trip = &gtfsrtpb.TripDescriptor{
			RouteId: proto.String(strconv.FormatInt(v.LineID, 10)),
		}
	}
	if v.NextStopID != 0 {
		vp.StopId = proto.String(strconv.FormatInt(v.NextStopID, 10))
		vp.CurrentStatus = currentStatus(v.State).Enum()
	}
	return &gtfsrtpb.FeedEntity{
		Id:      proto.String(id),
		Vehicle: vp,
	}
}

// currentStatus maps the host's coarse vehicle state onto the GTFS-RT
// stop-status vocabulary. Anything unrecognized reads as in transit,
// the least specific of the three.
func currentStatus(state string) gtfsrtpb.VehiclePosition_VehicleStopStatus {
	switch state {
	case "at_terminal", "at_stop", "boarding":
		return gtfsrtpb.VehiclePosition_STOPPED_AT
	case "approaching":
		return gtfsrtpb.VehiclePosition_INCOMING_AT
	default:
		return gtfsrtpb.VehiclePosition_IN_TRANSIT_TO
	}
}
