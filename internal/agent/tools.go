package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dukebot/dukebot-go/internal/dukeapi"
	"github.com/dukebot/dukebot-go/internal/rank"
	"github.com/dukebot/dukebot-go/internal/resolve"
	"github.com/dukebot/dukebot-go/internal/websearch"
)

// Deps carries the backends the tools call into. Web and Events are
// optional: their tools are simply not registered when nil.
type Deps struct {
	Resolver *resolve.Resolver
	Duke     *dukeapi.Client
	Web      *websearch.Client
	Events   *rank.Index
}

// RegisterAll registers the full Duke toolset on reg. Tool order matters
// only cosmetically, but the format lookup tools go first to reinforce the
// resolve-before-fetch instruction in the system prompt.
func RegisterAll(reg *Registry, deps Deps) error {
	if deps.Resolver == nil || deps.Duke == nil {
		return fmt.Errorf("resolver and duke client are required")
	}

	tools := []*Tool{
		searchSubjectTool(deps.Resolver),
		searchGroupTool(deps.Resolver),
		searchCategoryTool(deps.Resolver),
		eventsTool(deps.Duke),
		curriculumTool(deps.Duke),
		courseDetailsTool(deps.Duke),
		peopleTool(deps.Duke),
	}
	if deps.Web != nil {
		tools = append(tools, prattInfoTool(deps.Web))
	}
	if deps.Events != nil {
		tools = append(tools, eventsByTopicTool(deps.Events))
	}

	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func queryParam(description string) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"type":        "string",
			"description": description,
		},
	}
}

func marshalResult(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}
	return string(data), nil
}

func searchSubjectTool(r *resolve.Resolver) *Tool {
	return &Tool{
		Name: "search_subject_by_code",
		Description: "Use this tool to find the correct format of a subject before using get_curriculum_with_subject_from_duke_api. " +
			"Example: 'cs' might return 'COMPSCI - Computer Science'. " +
			"Always use this tool first if you're uncertain about the exact subject format.",
		Parameters: queryParam("The subject name or code fragment to look up, e.g. 'cs' or 'computer science'."),
		Required:   []string{"query"},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			return marshalResult(r.SearchSubjects(stringArg(args, "query", "")))
		},
	}
}

func searchGroupTool(r *resolve.Resolver) *Tool {
	return &Tool{
		Name: "search_group_format",
		Description: "Use this tool to find the correct format of a group before using get_duke_events. " +
			"Example: 'data science' might return '+DataScience (+DS)'. " +
			"Always use this tool first if you're uncertain about the exact group format.",
		Parameters: queryParam("The event organizer group name to look up, e.g. 'data science'."),
		Required:   []string{"query"},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			return marshalResult(r.SearchGroups(stringArg(args, "query", "")))
		},
	}
}

func searchCategoryTool(r *resolve.Resolver) *Tool {
	return &Tool{
		Name: "search_category_format",
		Description: "Use this tool to find the correct format of a category before using get_duke_events. " +
			"Example: 'ai' might return 'Artificial Intelligence'. " +
			"Always use this tool first if you're uncertain about the exact category format.",
		Parameters: queryParam("The event category name to look up, e.g. 'ai' or 'lecture'."),
		Required:   []string{"query"},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			return marshalResult(r.SearchCategories(stringArg(args, "query", "")))
		},
	}
}

func eventsTool(duke *dukeapi.Client) *Tool {
	return &Tool{
		Name: "get_duke_events",
		Description: "Use this tool to retrieve upcoming events from Duke University's calendar. " +
			"IMPORTANT: This tool requires exact format for groups and categories parameters. " +
			"You should first use search_group_format and search_category_format to find correct formats. " +
			"Use ['All'] for groups or categories to skip filtering on that parameter.",
		Parameters: map[string]any{
			"feed_type": map[string]any{
				"type":        "string",
				"description": "Format of the returned data: 'rss', 'js', 'ics', 'csv', 'json', or 'jsonp'. Defaults to 'json'.",
			},
			"future_days": map[string]any{
				"type":        "integer",
				"description": "Number of days into the future to fetch events for. Defaults to 45.",
			},
			"groups": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Exact group names to filter by, from search_group_format. Use ['All'] for no group filter.",
			},
			"categories": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Exact category names to filter by, from search_category_format. Use ['All'] for no category filter.",
			},
			"filter_method_group": map[string]any{
				"type":        "boolean",
				"description": "true: event must match ALL specified groups (AND). false: event may match ANY (OR). Defaults to true.",
			},
			"filter_method_category": map[string]any{
				"type":        "boolean",
				"description": "true: event must match ALL specified categories (AND). false: event may match ANY (OR). Defaults to true.",
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			req := dukeapi.DefaultEventsRequest()
			req.FeedType = stringArg(args, "feed_type", req.FeedType)
			req.FutureDays = intArg(args, "future_days", req.FutureDays)
			req.Groups = stringSliceArg(args, "groups", req.Groups)
			req.Categories = stringSliceArg(args, "categories", req.Categories)
			req.GroupsMatchAll = boolArg(args, "filter_method_group", req.GroupsMatchAll)
			req.CategoriesMatchAll = boolArg(args, "filter_method_category", req.CategoriesMatchAll)
			return duke.FetchEvents(ctx, req)
		},
	}
}

func curriculumTool(duke *dukeapi.Client) *Tool {
	return &Tool{
		Name: "get_curriculum_with_subject_from_duke_api",
		Description: "Use this tool to retrieve curriculum information for a specific subject. " +
			"IMPORTANT: This tool requires the exact format for the subject parameter. " +
			"You should first use search_subject_by_code to find the correct format. " +
			"The response contains each course's crse_id and crse_offer_nbr for follow-up detail queries.",
		Parameters: map[string]any{
			"subject": map[string]any{
				"type":        "string",
				"description": "The exact subject format from search_subject_by_code, e.g. 'COMPSCI - Computer Science'.",
			},
		},
		Required: []string{"subject"},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return duke.CurriculumBySubject(ctx, stringArg(args, "subject", ""))
		},
	}
}

func courseDetailsTool(duke *dukeapi.Client) *Tool {
	return &Tool{
		Name: "get_detailed_course_information_from_duke_api",
		Description: "Use this tool to retrieve detailed information about a specific course. " +
			"The course_id and course_offer_number values come from get_curriculum_with_subject_from_duke_api.",
		Parameters: map[string]any{
			"course_id": map[string]any{
				"type":        "string",
				"description": "The crse_id value from a curriculum listing, e.g. '029248'.",
			},
			"course_offer_number": map[string]any{
				"type":        "string",
				"description": "The crse_offer_nbr value from a curriculum listing, e.g. '1'.",
			},
		},
		Required: []string{"course_id", "course_offer_number"},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return duke.CourseDetails(ctx,
				stringArg(args, "course_id", ""),
				stringArg(args, "course_offer_number", ""))
		},
	}
}

func peopleTool(duke *dukeapi.Client) *Tool {
	return &Tool{
		Name:        "get_people_information_from_duke_api",
		Description: "Use this tool to retrieve information about Duke people by specifying a name, e.g. 'Brinnae Bent'.",
		Parameters: map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "The person's name to look up in the Duke directory.",
			},
		},
		Required: []string{"name"},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return duke.People(ctx, stringArg(args, "name", ""))
		},
	}
}

func prattInfoTool(web *websearch.Client) *Tool {
	return &Tool{
		Name: "get_pratt_info_serpapi",
		Description: "Use this tool to retrieve information about Duke University's Pratt School of Engineering via web search. " +
			"Specify a topic (general, academics, admissions, ai_meng, student_life, research, faculty, events) " +
			"and optionally a subtopic for more specific information.",
		Parameters: map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "The topic to search for: general, academics, admissions, ai_meng, student_life, research, faculty, or events.",
			},
			"subtopic": map[string]any{
				"type":        "string",
				"description": "Optional narrower aspect of the topic, e.g. 'curriculum' or 'deadlines'.",
			},
		},
		Required: []string{"topic"},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			topic := stringArg(args, "topic", "general")
			subtopic := stringArg(args, "subtopic", "")

			results, err := web.SearchTopic(ctx, topic, subtopic)
			if err != nil {
				var topicErr *websearch.UnknownTopicError
				if errors.As(err, &topicErr) {
					return marshalResult(map[string]any{
						"error":            topicErr.Error(),
						"available_topics": topicErr.AvailableTopics,
					})
				}
				return "", err
			}
			return marshalResult(results)
		},
	}
}

func eventsByTopicTool(idx *rank.Index) *Tool {
	return &Tool{
		Name: "search_events_by_topic",
		Description: "Use this tool to find calendar events matching a free-form topic by keyword relevance, " +
			"without needing exact group or category formats. " +
			"Example: 'machine learning talks' returns the most relevant upcoming events.",
		Parameters: map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Free-form topic to match events against, e.g. 'machine learning talks'.",
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of events to return. Defaults to 5.",
			},
		},
		Required: []string{"query"},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			results, err := idx.Search(stringArg(args, "query", ""), intArg(args, "max_results", 5))
			if err != nil {
				return "", err
			}
			if results == nil {
				results = []rank.Result{}
			}
			return marshalResult(map[string]any{"results": results})
		},
	}
}
