package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// LinkRelCanonical marks a link as the artifact's retrievable location.
// Only canonical links are downloaded.
const LinkRelCanonical = "canonical"

// Link is one entry of a notification's links array.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Integrity names the digest algorithm and expected base64 digest of an artifact.
type Integrity struct {
	Method string `json:"method"`
	Value  string `json:"value"`
}

// Job is one unit of download work derived from a single notification.
// A Job is immutable once constructed; the queue and workers only read it.
type Job struct {
	JobID     string
	Topic     string
	DataID    string
	Links     []Link
	Integrity *Integrity
}

// CanonicalLinks returns the links that should actually be downloaded,
// in notification order.
func (j *Job) CanonicalLinks() []Link {
	var links []Link
	for _, link := range j.Links {
		if link.Rel == LinkRelCanonical {
			links = append(links, link)
		}
	}
	return links
}

// Notification is the wire schema of a data-availability message.
type Notification struct {
	Properties struct {
		DataID    string     `json:"data_id"`
		Integrity *Integrity `json:"integrity"`
	} `json:"properties"`
	Links []Link `json:"links"`
}

// ParseNotification builds a Job from a raw payload received on a topic.
// The JobID is generated here and is only used for log correlation and
// the download history.
func ParseNotification(topic string, payload []byte) (*Job, error) {
	var n Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
	}

	if n.Properties.DataID == "" {
		return nil, fmt.Errorf("%w: missing properties.data_id", ErrMalformedNotification)
	}

	return &Job{
		JobID:     uuid.New().String(),
		Topic:     topic,
		DataID:    n.Properties.DataID,
		Links:     n.Links,
		Integrity: n.Properties.Integrity,
	}, nil
}
