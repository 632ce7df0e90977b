package comments

import "github.com/socialhub/go-services/internal/document"

// Container is the partitioned container comments are stored in.
const Container = "comments"

type Comment struct {
	document.Meta `bson:",inline"`
	Title         string `json:"title" bson:"title"`
	Body          string `json:"body" bson:"body"`
}

// Patch is the body of a merge request: fields that are absent, null or empty
// keep their stored value.
type Patch struct {
	Title document.Optional[string] `json:"title"`
	Body  document.Optional[string] `json:"body"`
}

func (p Patch) Apply(c *Comment, policy document.UpdatePolicy) {
	document.SetString(policy, &c.Title, p.Title)
	document.SetString(policy, &c.Body, p.Body)
}

type CreateInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
