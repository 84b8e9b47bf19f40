package resolver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// URLKind classifies a supported artifact URL.
type URLKind string

const (
	KindModel   URLKind = "model"
	KindDataset URLKind = "dataset"
	KindCode    URLKind = "code"
	KindUnknown URLKind = "unknown"
)

// ErrNotResolvable is returned when a URL cannot be classified or its
// identifier cannot be extracted. The engine is never invoked for such URLs.
type ErrNotResolvable struct {
	URL    string
	Reason string
}

func (e *ErrNotResolvable) Error() string {
	return fmt.Sprintf("cannot resolve %q: %s", e.URL, e.Reason)
}

var (
	hfModelRe   = regexp.MustCompile(`huggingface\.co/([^?#]+)`)
	hfDatasetRe = regexp.MustCompile(`huggingface\.co/datasets/([^?#/]+(?:/[^?#/]+)?)`)
	githubRe    = regexp.MustCompile(`github\.com/([^/]+)/([^/?#]+)`)
	treeBlobRe  = regexp.MustCompile(`/(tree|blob)/.*$`)
	gitSuffixRe = regexp.MustCompile(`\.git$`)
)

// Classify identifies the artifact type a URL refers to. Dataset URLs are
// checked before plain model URLs since every dataset URL is also a
// huggingface.co URL.
func Classify(rawURL string) URLKind {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "huggingface.co/datasets/"):
		return KindDataset
	case strings.Contains(lower, "github.com/"):
		return KindCode
	case strings.Contains(lower, "huggingface.co/"):
		return KindModel
	default:
		return KindUnknown
	}
}

// ModelID extracts the "org/model" (or bare "model") identifier from a
// hosted-model URL, dropping /tree/... and /blob/... suffixes.
func ModelID(rawURL string) (string, error) {
	trimmed := strings.TrimRight(rawURL, "/")
	trimmed = treeBlobRe.ReplaceAllString(trimmed, "")

	match := hfModelRe.FindStringSubmatch(trimmed)
	if match == nil {
		return "", &ErrNotResolvable{URL: rawURL, Reason: "no model id in URL"}
	}
	return strings.Trim(match[1], "/"), nil
}

// DatasetID extracts the dataset identifier from a hosted-dataset URL.
func DatasetID(rawURL string) (string, error) {
	match := hfDatasetRe.FindStringSubmatch(strings.TrimRight(rawURL, "/"))
	if match == nil {
		return "", &ErrNotResolvable{URL: rawURL, Reason: "no dataset id in URL"}
	}
	return match[1], nil
}

// RepoID extracts owner and repo from a code-hosting URL.
func RepoID(rawURL string) (owner, repo string, err error) {
	trimmed := strings.TrimRight(rawURL, "/")
	trimmed = gitSuffixRe.ReplaceAllString(trimmed, "")

	match := githubRe.FindStringSubmatch(trimmed)
	if match == nil {
		return "", "", &ErrNotResolvable{URL: rawURL, Reason: "no owner/repo in URL"}
	}
	return match[1], match[2], nil
}

// NameFromURL extracts the normalized artifact name a URL refers to.
func NameFromURL(rawURL string) (string, error) {
	var name string
	var err error

	switch Classify(rawURL) {
	case KindModel:
		name, err = ModelID(rawURL)
	case KindDataset:
		name, err = DatasetID(rawURL)
	case KindCode:
		_, name, err = RepoID(rawURL)
	default:
		return "", &ErrNotResolvable{URL: rawURL, Reason: "unsupported host"}
	}
	if err != nil {
		return "", err
	}

	if decoded, decErr := url.PathUnescape(name); decErr == nil {
		name = decoded
	}
	return strings.ToLower(strings.TrimSpace(name)), nil
}
