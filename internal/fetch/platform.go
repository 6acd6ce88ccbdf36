package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformSmartRecruiters is the SmartRecruiters ATS platform
	PlatformSmartRecruiters Platform = "smartrecruiters"
	// PlatformAshby is the Ashby ATS platform
	PlatformAshby Platform = "ashby"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
	{"smartrecruiters.com", PlatformSmartRecruiters},
	{"ashbyhq.com", PlatformAshby},
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for _, ph := range platformHosts {
		if host == ph.suffix || strings.HasSuffix(host, "."+ph.suffix) {
			return ph.platform
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a specific platform,
// always ending with the generic job posting selectors.
func PlatformContentSelectors(platform Platform) []string {
	var specific []string
	switch platform {
	case PlatformGreenhouse:
		specific = []string{".job__description.body", ".job__description", ".job-post-container"}
	case PlatformLever:
		specific = []string{".posting-page", ".posting-description", ".section-wrapper.page-full-width"}
	case PlatformWorkday:
		specific = []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']"}
	case PlatformSmartRecruiters:
		specific = []string{".job-sections", "[itemprop='description']"}
	case PlatformAshby:
		specific = []string{"[class*='descriptionText']"}
	}
	return append(specific, JobPostingSelectors()...)
}

// PlatformNoiseSelectors returns application-form and legal boilerplate selectors to drop.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		"#application-form",
		".application-form",
		".apply-button-container",
		".eeo-statement",
		".voluntary-disclosure",
		".social-share",
		".cookie-consent",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", "#usa_self_id_section")
	case PlatformLever:
		return append(common, ".posting-apply", ".lever-application-form")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']")
	default:
		return common
	}
}
