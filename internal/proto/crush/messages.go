// Package crush holds the wire messages and gRPC service descriptors of the
// crush API. Messages travel as JSON (see codec.go), so the same structs
// bind HTTP request bodies and query strings.
package crush

// UserSummary is the public profile of a user.
type UserSummary struct {
	UserId   string `json:"userId"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Branch   string `json:"branch"`
	Year     string `json:"year"`
}

type SubmitPreferencesRequest struct {
	SubmitterUserId string `json:"userId"`
	Crush           string `json:"crush"`
	Like            string `json:"like"`
	Adore           string `json:"adore"`
}

func (x *SubmitPreferencesRequest) GetSubmitterUserId() string {
	if x != nil {
		return x.SubmitterUserId
	}
	return ""
}

type SubmitPreferencesResponse struct {
	SubmissionId  string `json:"submissionId"`
	UnixTimestamp uint64 `json:"submittedAt"`
	Message       string `json:"message"`
}

type GetStatusRequest struct {
	UserId string `json:"userId" uri:"userId"`
}

func (x *GetStatusRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

type Choice struct {
	Category string       `json:"category"`
	User     *UserSummary `json:"user"`
}

type GetStatusResponse struct {
	HasSubmitted     bool      `json:"hasSubmitted"`
	IsLocked         bool      `json:"isLocked"`
	NextRevealAt     uint64    `json:"nextRevealAt"`
	ClosesAt         uint64    `json:"closesAt"`
	TotalSubmissions uint64    `json:"totalSubmissions"`
	Choices          []*Choice `json:"choices"`
}

type GetResultsRequest struct {
	UserId string `json:"userId" uri:"userId"`
}

func (x *GetResultsRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

type Match struct {
	User          *UserSummary `json:"user"`
	MyCategory    string       `json:"myCategory"`
	TheirCategory string       `json:"theirCategory"`
	Label         string       `json:"label"`
}

// GetResultsResponse carries either Locked with NextRevealAt, or Matches
// together with the requester's own Choices.
type GetResultsResponse struct {
	Locked       bool      `json:"locked"`
	NextRevealAt uint64    `json:"nextRevealAt"`
	ClosesAt     uint64    `json:"closesAt"`
	Matches      []*Match  `json:"matches"`
	Choices      []*Choice `json:"choices"`
}

type SearchUsersRequest struct {
	Query           string  `json:"q" form:"q"`
	Branch          string  `json:"branch,omitempty" form:"branch"`
	ExcludeUserId   string  `json:"exclude" form:"exclude"`
	Limit           uint32  `json:"limit" form:"limit"`
	PaginationToken *string `json:"paginationToken,omitempty" form:"paginationToken"`
}

func (x *SearchUsersRequest) GetQuery() string {
	if x != nil {
		return x.Query
	}
	return ""
}

func (x *SearchUsersRequest) GetBranch() string {
	if x != nil {
		return x.Branch
	}
	return ""
}

func (x *SearchUsersRequest) GetPaginationToken() string {
	if x != nil && x.PaginationToken != nil {
		return *x.PaginationToken
	}
	return ""
}

type SearchUsersResponse struct {
	Users               []*UserSummary `json:"users"`
	NextPaginationToken *string        `json:"nextPaginationToken,omitempty"`
}

func (x *SearchUsersResponse) GetNextPaginationToken() string {
	if x != nil && x.NextPaginationToken != nil {
		return *x.NextPaginationToken
	}
	return ""
}

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,max=128"`
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=128"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Branch   string `json:"branch" validate:"required,max=64"`
	Year     string `json:"year" validate:"required,max=16"`
}

type RegisterResponse struct {
	UserId  string `json:"userId"`
	Message string `json:"message"`
}

type SubmitFeedbackRequest struct {
	UserId   string `json:"userId"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

type SubmitFeedbackResponse struct {
	FeedbackId string `json:"feedbackId"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}
