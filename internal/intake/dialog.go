package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"talentscout-bot/internal/candidate"
)

const (
	pendingConsent = "consent"
	pendingRetry   = "retry"

	finishCommand = "finish"
)

const greetingText = "Hello! I'm TalentScout's hiring assistant. Tell me about yourself: " +
	"full name, email, phone, years of experience, desired position, location and tech stack. " +
	"Labels help, for example \"Full Name: Jane Doe\" or \"Tech Stack: Python, Go\"."

const (
	generatingText  = "Thanks! Generating your technical questions..."
	retryLaterText  = "Failed to generate questions. Please try again later. Send \"retry\" when you are ready."
	consentText     = "Do you consent to anonymized storage of your details? (yes/no)"
	allAnsweredText = "All questions answered. Send \"finish\" to complete the assessment and get your answers."
	completedText   = "Thank you for completing the assessment!"
	goodbyeText     = "Thank you for your time! Our recruiting team will be in touch."
)

// Reply is what a transport should show the candidate after one message.
type Reply struct {
	Messages    []string
	Attachments []Attachment
	Done        bool
}

func (r *Reply) say(format string, args ...interface{}) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// Dialog drives a session through free-text chat: details, consent,
// questions one by one, then finish.
type Dialog struct {
	workflow    *Workflow
	endKeywords map[string]bool
}

func NewDialog(workflow *Workflow, endKeywords []string) *Dialog {
	keywords := make(map[string]bool, len(endKeywords))
	for _, k := range endKeywords {
		keywords[strings.ToLower(strings.TrimSpace(k))] = true
	}
	return &Dialog{workflow: workflow, endKeywords: keywords}
}

// Start greets the candidate.
func (d *Dialog) Start(s *Session) Reply {
	var reply Reply
	reply.say(greetingText)
	d.record(s, reply)
	return reply
}

// Handle consumes one candidate message.
func (d *Dialog) Handle(ctx context.Context, s *Session, text string) Reply {
	text = strings.TrimSpace(text)
	s.AddMessage(RoleUser, text, d.workflow.now())

	var reply Reply
	switch {
	case s.Ended:
		reply.say("This conversation has ended. Start a new session to apply again.")
		reply.Done = true
	case d.endKeywords[strings.ToLower(text)]:
		s.Ended = true
		reply.say(goodbyeText)
		reply.Done = true
	case s.State == StateCollecting:
		d.collect(ctx, s, text, &reply)
	case s.State == StateAnswering:
		d.answer(ctx, s, text, &reply)
	default:
		if strings.EqualFold(text, finishCommand) {
			d.finish(ctx, s, &reply)
		} else {
			reply.say("The assessment is complete. Send \"finish\" to get your answers again.")
		}
	}

	d.record(s, reply)
	return reply
}

func (d *Dialog) collect(ctx context.Context, s *Session, text string, reply *Reply) {
	switch s.Pending {
	case pendingRetry:
		d.submit(ctx, s, reply)
		return
	case pendingConsent:
		consent, ok := parseYesNo(text)
		if !ok {
			reply.say("Please answer yes or no. %s", consentText)
			return
		}
		s.Draft.Consent = consent
		s.ConsentAsked = true
		d.submit(ctx, s, reply)
		return
	case "":
		before := len(s.Missing())
		missing, err := d.workflow.Ingest(s, text)
		if err != nil {
			reply.say("%v", err)
			return
		}
		if len(missing) < before {
			reply.say("Got it, thanks.")
		}
	default:
		if text == "" {
			reply.say("Please provide your %s.", label(s.Pending))
			return
		}
		// labelled answers go through the extractor, bare ones fill the asked field
		before := len(s.Missing())
		missing, err := d.workflow.Ingest(s, text)
		if err != nil {
			reply.say("%v", err)
			return
		}
		if len(missing) == before {
			if err := d.workflow.SetField(s, s.Pending, text); err != nil {
				reply.say("%v", err)
				return
			}
		}
	}

	d.promptNext(ctx, s, reply)
}

// promptNext asks for the next missing field, then consent, then generates.
func (d *Dialog) promptNext(ctx context.Context, s *Session, reply *Reply) {
	if missing := s.Missing(); len(missing) > 0 {
		s.Pending = missing[0]
		reply.say("Please provide your %s.", label(s.Pending))
		return
	}
	if !s.ConsentAsked {
		s.Pending = pendingConsent
		reply.say(consentText)
		return
	}
	d.submit(ctx, s, reply)
}

func (d *Dialog) submit(ctx context.Context, s *Session, reply *Reply) {
	reply.say(generatingText)

	err := d.workflow.Submit(ctx, s)
	var missingErr *candidate.MissingFieldsError
	switch {
	case err == nil:
		s.Pending = ""
		s.Cursor = 0
		reply.say("Please answer the following %d questions.", s.Questions.Total())
		d.askCurrent(s, reply)
	case errors.As(err, &missingErr):
		s.Pending = ""
		d.promptNext(ctx, s, reply)
	default:
		s.Pending = pendingRetry
		reply.say(retryLaterText)
	}
}

func (d *Dialog) answer(ctx context.Context, s *Session, text string, reply *Reply) {
	if strings.EqualFold(text, finishCommand) {
		d.finish(ctx, s, reply)
		return
	}

	refs := flatten(s.Questions)
	if s.Cursor >= len(refs) {
		reply.say(allAnsweredText)
		return
	}

	current := refs[s.Cursor]
	if err := d.workflow.Answer(s, current.Technology, current.Index, text); err != nil {
		reply.say("%v", err)
		return
	}
	s.Cursor++

	if s.Cursor < len(refs) {
		d.askCurrent(s, reply)
		return
	}
	reply.say(allAnsweredText)
}

func (d *Dialog) askCurrent(s *Session, reply *Reply) {
	refs := flatten(s.Questions)
	if s.Cursor >= len(refs) {
		reply.say(allAnsweredText)
		return
	}
	ref := refs[s.Cursor]
	reply.say("[%s %d/%d · %s · %s] %s", ref.Technology, ref.Index, ref.Count,
		ref.Question.Difficulty, ref.Question.Area, ref.Question.Question)
}

func (d *Dialog) finish(ctx context.Context, s *Session, reply *Reply) {
	export, err := d.workflow.Finish(ctx, s)
	if export == nil {
		reply.say("%v", err)
		return
	}
	if err != nil {
		reply.say("Your answers are ready, but your anonymized record could not be saved.")
	}
	reply.Attachments = export.Attachments()
	reply.say(completedText)
}

// record appends the assistant's messages to the transcript.
func (d *Dialog) record(s *Session, reply Reply) {
	now := d.workflow.now()
	for _, m := range reply.Messages {
		s.AddMessage(RoleAssistant, m, now)
	}
}

func label(field string) string {
	if l, ok := candidate.Labels[field]; ok {
		return strings.ToLower(l)
	}
	return field
}

func parseYesNo(text string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", "yeah", "sure", "ok", "true", "agree", "i agree":
		return true, true
	case "no", "n", "nope", "false", "disagree":
		return false, true
	}
	return false, false
}
