package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board or applicant tracking system
type Platform string

// Known platforms
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformLinkedIn   Platform = "linkedin"
	PlatformIndeed     Platform = "indeed"
	PlatformUnknown    Platform = "unknown"
)

// platformProfile is how postings on one platform are laid out
type platformProfile struct {
	hosts   []string
	content []string
	noise   []string
	// clientSide platforms ship an empty shell and render the posting in JS
	clientSide bool
}

// profiles is checked in order; the first host suffix match wins
var profiles = []struct {
	platform Platform
	profile  platformProfile
}{
	{PlatformGreenhouse, platformProfile{
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:   []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	}},
	{PlatformLever, platformProfile{
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".apply-section", ".lever-application-form", ".posting-apply"},
	}},
	{PlatformWorkday, platformProfile{
		hosts:      []string{"myworkdayjobs.com", "workday.com"},
		content:    []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:      []string{"[data-automation-id='applyButton']", "[data-automation-id='similarJobs']", ".application-section"},
		clientSide: true,
	}},
	{PlatformAshby, platformProfile{
		hosts:      []string{"ashbyhq.com"},
		content:    []string{"[class*='_descriptionText']", "[class*='_description']", "main"},
		noise:      []string{"[class*='_applicationForm']"},
		clientSide: true,
	}},
	{PlatformLinkedIn, platformProfile{
		hosts:      []string{"linkedin.com"},
		content:    []string{".description__text", ".show-more-less-html__markup", ".jobs-description"},
		noise:      []string{".jobs-apply-button", ".similar-jobs", ".sign-in-modal", ".people-also-viewed"},
		clientSide: true,
	}},
	{PlatformIndeed, platformProfile{
		hosts:   []string{"indeed.com"},
		content: []string{"#jobDescriptionText", ".jobsearch-jobDescriptionText"},
		noise:   []string{"#indeedApplyButton", ".jobsearch-RelatedLinks"},
	}},
}

// commonNoise is removed on every platform: apply forms, EEO and
// self-identification blocks, share widgets and consent banners.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".application--container",
	".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	"[data-testid='eeo']",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

func lookupProfile(p Platform) (platformProfile, bool) {
	for _, entry := range profiles {
		if entry.platform == p {
			return entry.profile, true
		}
	}
	return platformProfile{}, false
}

// DetectPlatform identifies the platform hosting urlStr by host suffix
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for _, entry := range profiles {
		for _, suffix := range entry.profile.hosts {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return entry.platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns the posting body selectors for a
// platform, most specific first. Unknown platforms get the generic list.
func PlatformContentSelectors(platform Platform) []string {
	if p, ok := lookupProfile(platform); ok {
		return p.content
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns the common noise selectors plus any the
// platform adds.
func PlatformNoiseSelectors(platform Platform) []string {
	out := append([]string(nil), commonNoise...)
	if p, ok := lookupProfile(platform); ok {
		out = append(out, p.noise...)
	}
	return out
}

// RendersClientSide reports whether static HTML from the platform is
// expected to be an empty shell.
func RendersClientSide(platform Platform) bool {
	p, ok := lookupProfile(platform)
	return ok && p.clientSide
}
