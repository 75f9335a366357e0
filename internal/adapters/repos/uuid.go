package repos

import "github.com/google/uuid"

var (
	// ProjectionMarkerNamespace is the UUID V5 namespace for processed event markers.
	// Generated via: uuid_generate_v5('6ba7b811-9dad-11d1-80b4-00c04fd430c8', 'svc-blog-events:projection-marker')
	ProjectionMarkerNamespace = uuid.MustParse("c7d2a4e9-3b1f-5c8e-9a6d-2e4f7b8c1d3a")
)

// markerID derives a stable identifier for an event key.
func markerID(key string) string {
	return uuid.NewSHA1(ProjectionMarkerNamespace, []byte(key)).String()
}
