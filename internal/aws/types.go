package aws

import "time"

// ResourceKind identifies what a region scanner collects.
type ResourceKind string

const (
	KindAmplifyApp     ResourceKind = "amplify_app"
	KindTaggedResource ResourceKind = "tagged_resource"
)

// AmplifyApp is one Amplify application found in a region.
type AmplifyApp struct {
	Region        string `json:"Region"`
	AppID         string `json:"AppId"`
	Name          string `json:"Name"`
	ARN           string `json:"ARN"`
	DefaultDomain string `json:"DefaultDomain"`
	Repository    string `json:"Repository"`
}

// TaggedResource is one resource returned by the Resource Groups Tagging API.
type TaggedResource struct {
	Region string            `json:"Region"`
	ARN    string            `json:"ARN"`
	Type   string            `json:"Type"`
	Tags   map[string]string `json:"Tags"`
}

// ScanResult holds everything collected from a set of regions.
type ScanResult struct {
	Apps             []AmplifyApp     `json:"apps,omitempty"`
	Resources        []TaggedResource `json:"resources,omitempty"`
	Errors           []string         `json:"errors,omitempty"`
	ResourcesScanned int              `json:"resources_scanned"`
	RegionsScanned   int              `json:"regions_scanned"`
}

// ScanConfig holds parameters that control scanning behavior.
type ScanConfig struct {
	ResourceTypes []string
	Tags          map[string]string
	PageSize      int32
}

// Progress messages sent to ScanProgress callbacks.
const (
	ProgressStarted  = "started"
	ProgressFinished = "finished"
	ProgressFailed   = "failed"
)

// ScanProgress reports scanning progress to callers. Result is set on
// ProgressFinished and holds only that region's findings.
type ScanProgress struct {
	Region    string
	Scanner   ResourceKind
	Message   string
	Found     int
	Result    *ScanResult
	Err       error
	Timestamp time.Time
}
