// README: Gemini-backed planner; JSON response mode plus defensive markdown stripping.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"cabbot/internal/session"
)

// GeminiPlanner implements Planner using Google's Gemini models.
type GeminiPlanner struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiPlanner(ctx context.Context, apiKey string) (*GeminiPlanner, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency; the loop may call this several
	// times per user message.
	model := client.GenerativeModel("gemini-2.0-flash")
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.4)

	return &GeminiPlanner{client: client, model: model}, nil
}

func (p *GeminiPlanner) Close() {
	p.client.Close()
}

func (p *GeminiPlanner) Decide(ctx context.Context, in Input) (*Decision, error) {
	prompt := buildPrompt(in)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}

	cleaned := cleanJSONString(text.String())
	var d Decision
	if err := json.Unmarshal([]byte(cleaned), &d); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleaned)
	}
	return &d, nil
}

func buildPrompt(in Input) string {
	var transcript strings.Builder
	for _, t := range in.Turns {
		fmt.Fprintf(&transcript, "%s: %s\n", t.Role, t.Content)
	}

	return fmt.Sprintf(`Role: You are the planning core of an outstation cab booking assistant for customers in India.
Today's date: %s

Current session state:
%s

You decide the next reply to the user and which actions (if any) to execute.

AVAILABLE ACTIONS:
- create_trip: book a new trip. Args: pickupCity, dropCity, tripType ("one-way" | "round-trip"), startDate ("YYYY-MM-DD"), endDate ("YYYY-MM-DD", round-trip only), passengerCount (integer), preferences (object, see PREFERENCE KEYS).
- modify_trip: change an existing trip. Args: only the fields that change, same names as create_trip.
- cancel_trip: cancel the active trip. No args.
- search_and_notify_drivers: find drivers for the active trip and request quotes. Args: preferences (object), passengerCount (integer).

PREFERENCE KEYS (inside the "preferences" object):
vehicleTypesList (list of strings), languages (list of strings), gender ("male" | "female"),
minAge, maxAge, minExperience (integers), isPetAllowed, married, allowHandicappedPersons,
availableForCustomersPersonalCar, availableForDrivingInEventWedding,
availableForPartTimeFullTime (booleans), connections, dlDateOfIssue ("asc" | "desc").

RULES:
1. NEVER invent booking details. If pickup city, drop city, trip type, or start date is
   missing, ask for ALL missing details in one question and emit no actions.
2. Cities only. If the user names an Indian state, ask which city they mean.
3. Relative dates ("tomorrow", "next Friday") must be resolved against today's date
   into YYYY-MM-DD before being placed in args.
4. After a successful create_trip, immediately follow with search_and_notify_drivers
   in the same decision unless the user asked you to wait.
5. "more drivers" / "any other options" with an active trip -> search_and_notify_drivers
   (the system handles pagination; just emit the action).
6. Modify only what the user changed; do not restate unchanged fields in modify_trip args.
7. Emit cancel_trip only when the user clearly wants to cancel, never for rewording.
8. Action results appear in the transcript as "action" turns. Use them: do not repeat
   an action that already succeeded this turn, and do not claim success after a failure.
9. The reply is user-facing. Plain friendly English (mirror the user's language if they
   write in another one), no internal identifiers, no action names, no JSON.

Output JSON schema:
{
  "reply": "string (user-facing response)",
  "actions": [{"name": "string", "args": {}}]
}

Conversation:
%s`, in.Today, in.StateSummary, transcript.String())
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}

// SummarizeState renders session state for the prompt. Kept here so the
// prompt and its inputs evolve together.
func SummarizeState(s *session.State) string {
	var b strings.Builder
	if s.Trip.Active() {
		fmt.Fprintf(&b, "Active trip %s (%s): %s -> %s, %s, start %s",
			s.Trip.ID, s.Trip.Status, s.Trip.Route.PickupCity, s.Trip.Route.DropCity,
			s.Trip.Schedule.TripType, s.Trip.Schedule.StartDate)
		if s.Trip.Schedule.TripType == "round-trip" {
			fmt.Fprintf(&b, ", return %s", s.Trip.Schedule.EndDate)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("No active trip.\n")
	}
	if s.PassengerCount > 0 {
		fmt.Fprintf(&b, "Passengers: %d\n", s.PassengerCount)
	}
	if !s.Preferences.IsZero() {
		raw, _ := json.Marshal(s.Preferences)
		fmt.Fprintf(&b, "Stored driver preferences: %s\n", raw)
	}
	if n := len(s.NotifiedDrivers); n > 0 {
		fmt.Fprintf(&b, "Drivers already contacted for quotes: %d\n", n)
	}
	return b.String()
}
