// Package prompt renders the persona-generation instruction sent to the
// language model.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"reddit-persona/analyzer"
	"reddit-persona/reddit"
)

const (
	maxSamplePosts    = 10
	maxSampleComments = 20
	sampleTextLength  = 200

	maxPromptSubreddits = 5
	maxPromptWords      = 10
)

const personaTemplate = `Based on the following Reddit user data, create a detailed user persona in the following format:

================================================================================
USERNAME: <Reddit username>
================================================================================
AGE: <inferred or blank>
OCCUPATION: <inferred or blank>
STATUS: <inferred or blank>
LOCATION: <inferred or blank>
TIER: <inferred or blank>
ARCHETYPE: <inferred or blank>

[Practical] [Adaptable] [Spontaneous] [Active]  # Use traits inferred from posts/comments

------------------------------------------------------------------------------
"<A short, first-person quote that summarizes the user’s main motivation or pain point.>"
------------------------------------------------------------------------------

MOTIVATIONS (rate each 1-5, cite a post/comment for each)
Convenience:     <1-5>   (Cited from: "<excerpt>" - <link>)
Wellness:        <1-5>   (Cited from: "<excerpt>" - <link>)
Speed:           <1-5>   (Cited from: "<excerpt>" - <link>)
Preferences:     <1-5>   (Cited from: "<excerpt>" - <link>)
Comfort:         <1-5>   (Cited from: "<excerpt>" - <link>)
Dietary Needs:   <1-5>   (Cited from: "<excerpt>" - <link>)

PERSONALITY (rate each 1-5, cite a post/comment for each)
Introvert(1) - Extrovert(5): <1-5>   (Cited from: "<excerpt>" - <link>)
Intuition(1) - Sensing(5): <1-5>     (Cited from: "<excerpt>" - <link>)
Feeling(1) - Thinking(5): <1-5>      (Cited from: "<excerpt>" - <link>)
Perceiving(1) - Judging(5): <1-5>    (Cited from: "<excerpt>" - <link>)

------------------------------------------------------------------------------
BEHAVIOUR & HABITS
- <Bullet point 1> (Cited from: "<excerpt>" - <link>)
- <Bullet point 2> (Cited from: "<excerpt>" - <link>)
...

------------------------------------------------------------------------------
FRUSTRATIONS
- <Bullet point 1> (Cited from: "<excerpt>" - <link>)
- <Bullet point 2> (Cited from: "<excerpt>" - <link>)
...

------------------------------------------------------------------------------
GOALS & NEEDS
- <Bullet point 1> (Cited from: "<excerpt>" - <link>)
- <Bullet point 2> (Cited from: "<excerpt>" - <link>)
...

For each field, infer from Reddit data if possible, otherwise leave blank. For every motivation, personality trait, habit, frustration, and goal, cite the specific Reddit post or comment (with a short excerpt and a direct link). Use the provided Reddit data below:

User Info:
- Username: %s
- Account Age: %s
- Karma: %d comment, %d post

Activity Analysis:
- Posts: %d
- Comments: %d
- Top Subreddits: %s
- Top Interests: %s

Sample Posts:
%s

Sample Comments:
%s

Format the response exactly as above, with clear section headers, 1-5 scales, and citations for each characteristic.`

// Build renders the generation prompt for one user: the fixed persona
// document format followed by the collected data context. Pure string
// interpolation; no network or clock access beyond formatting the
// account creation date.
func Build(data *reddit.UserData, analysis *analyzer.Result) string {
	if data == nil {
		data = &reddit.UserData{}
	}
	user := data.User
	if user == nil {
		user = &reddit.UserInfo{}
	}
	if analysis == nil {
		analysis = &analyzer.Result{}
	}

	topSubreddits := analysis.TopSubreddits
	if len(topSubreddits) > maxPromptSubreddits {
		topSubreddits = topSubreddits[:maxPromptSubreddits]
	}
	subredditNames := make([]string, 0, len(topSubreddits))
	for _, s := range topSubreddits {
		subredditNames = append(subredditNames, s.Name)
	}

	topWords := analysis.TopWords
	if len(topWords) > maxPromptWords {
		topWords = topWords[:maxPromptWords]
	}
	wordNames := make([]string, 0, len(topWords))
	for _, w := range topWords {
		wordNames = append(wordNames, w.Word)
	}

	return fmt.Sprintf(personaTemplate,
		user.Username,
		creationDate(user.CreatedUTC),
		user.CommentKarma,
		user.LinkKarma,
		analysis.PostCount,
		analysis.CommentCount,
		strings.Join(subredditNames, ", "),
		strings.Join(wordNames, ", "),
		samplePosts(data.Posts),
		sampleComments(data.Comments),
	)
}

func samplePosts(posts []reddit.Post) string {
	if len(posts) > maxSamplePosts {
		posts = posts[:maxSamplePosts]
	}
	lines := make([]string, 0, len(posts))
	for _, p := range posts {
		lines = append(lines, fmt.Sprintf("Post: %s - %s...", p.Title, truncate(p.SelfText, sampleTextLength)))
	}
	return strings.Join(lines, "\n")
}

func sampleComments(comments []reddit.Comment) string {
	if len(comments) > maxSampleComments {
		comments = comments[:maxSampleComments]
	}
	lines := make([]string, 0, len(comments))
	for _, c := range comments {
		lines = append(lines, fmt.Sprintf("Comment: %s...", truncate(c.Body, sampleTextLength)))
	}
	return strings.Join(lines, "\n")
}

// truncate keeps the first n characters. Callers append the ellipsis
// themselves, whether or not anything was cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func creationDate(createdUTC float64) string {
	return time.Unix(int64(createdUTC), 0).Format("2006-01-02")
}
