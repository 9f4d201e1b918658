package dukeapi

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "github.com/dukebot/dukebot-go/internal/errors"
)

// maxCoursesPerSubject caps the subject listing handed back to the model.
// Full subject listings run to hundreds of courses and blow out the context
// window; the first few carry the crse_id/crse_offer_nbr pairs needed for
// follow-up detail queries.
const maxCoursesPerSubject = 5

type truncatedCourses struct {
	Courses []json.RawMessage `json:"courses"`
	Note    string            `json:"note"`
}

// CurriculumBySubject returns the course listing for a subject code such as
// "AIPI - AI for Product Innovation". When the API returns a top-level array
// longer than five entries, the result is truncated and wrapped with a note
// saying how many courses exist.
func (c *Client) CurriculumBySubject(ctx context.Context, subject string) (string, error) {
	url := fmt.Sprintf("%s/curriculum/courses/subject/%s?access_token=%s",
		c.streamerBaseURL, escape(subject), c.token)

	body, err := c.get(ctx, "curriculum_subject", url)
	if err != nil {
		return "", err
	}

	var courses []json.RawMessage
	if err := json.Unmarshal(body, &courses); err != nil {
		// Not an array: some subjects return an object envelope. Pass it
		// through untouched if it is at least valid JSON.
		if json.Valid(body) {
			return string(body), nil
		}
		return "", apperrors.NewParseError(url, err)
	}

	if len(courses) <= maxCoursesPerSubject {
		return string(body), nil
	}

	wrapped, err := json.Marshal(truncatedCourses{
		Courses: courses[:maxCoursesPerSubject],
		Note:    fmt.Sprintf("Showing %d out of %d courses...", maxCoursesPerSubject, len(courses)),
	})
	if err != nil {
		return "", apperrors.NewParseError(url, err)
	}
	return string(wrapped), nil
}

// SubjectValue is one entry of the curriculum SUBJECT list of values.
type SubjectValue struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

// subjectLOVResponse mirrors the streamer list-of-values envelope.
type subjectLOVResponse struct {
	SccLovResp struct {
		Lovs struct {
			Lov struct {
				Values struct {
					Value []SubjectValue `json:"value"`
				} `json:"values"`
			} `json:"lov"`
		} `json:"lovs"`
	} `json:"scc_lov_resp"`
}

// SubjectValues fetches the full list of curriculum subject codes with
// their descriptions.
func (c *Client) SubjectValues(ctx context.Context) ([]SubjectValue, error) {
	url := fmt.Sprintf("%s/curriculum/list_of_values/fieldname/SUBJECT?access_token=%s",
		c.streamerBaseURL, c.token)

	body, err := c.get(ctx, "subject_values", url)
	if err != nil {
		return nil, err
	}

	var resp subjectLOVResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.NewParseError(url, err)
	}
	return resp.SccLovResp.Lovs.Lov.Values.Value, nil
}

// CourseDetails returns the full record for one course, identified by the
// crse_id and crse_offer_nbr values from a subject listing.
func (c *Client) CourseDetails(ctx context.Context, courseID, courseOfferNumber string) (string, error) {
	url := fmt.Sprintf("%s/curriculum/courses/crse_id/%s/crse_offer_nbr/%s?access_token=%s",
		c.streamerBaseURL, escape(courseID), escape(courseOfferNumber), c.token)

	body, err := c.get(ctx, "curriculum_course", url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
