package bot

import (
	"fmt"
	"strconv"
	"strings"
)

type ActionKind int

const (
	ActionStartSubmission ActionKind = iota
	ActionConfirmYes
	ActionConfirmNo
	ActionCancelSubmission
	ActionModerate
	ActionRejectNoReason
	ActionPanelExport
	ActionPanelReminder
	ActionPanelResults
	ActionPanelManageAdmins
	ActionManageAdd
	ActionManageRemove
	ActionManageList
	ActionManageBackToPanel
	ActionManageBackToManagement
	ActionRemoveAdmin
	ActionSendNow
	ActionSendSchedule
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
	DecisionBonus   = "bonus"
)

// Callback is the parsed form of an inline button payload. Moderation
// payloads carry the submission and user ids, remove-admin payloads the
// target id.
type Callback struct {
	Kind         ActionKind
	Decision     string
	SubmissionID int64
	UserID       int64
	TargetID     int64
}

// ParseCallback validates a raw callback payload and turns it into a
// typed Callback. Unknown payloads and malformed embedded ids are
// errors, never dispatched.
func ParseCallback(data string) (Callback, error) {
	switch data {
	case "start_submission":
		return Callback{Kind: ActionStartSubmission}, nil
	case "confirm_yes":
		return Callback{Kind: ActionConfirmYes}, nil
	case "confirm_no":
		return Callback{Kind: ActionConfirmNo}, nil
	case "cancel_submission":
		return Callback{Kind: ActionCancelSubmission}, nil
	case "reject_no_reason":
		return Callback{Kind: ActionRejectNoReason}, nil
	case "admin_panel:get_db":
		return Callback{Kind: ActionPanelExport}, nil
	case "admin_panel:send_reminder":
		return Callback{Kind: ActionPanelReminder}, nil
	case "admin_panel:send_results":
		return Callback{Kind: ActionPanelResults}, nil
	case "admin_panel:manage_admins":
		return Callback{Kind: ActionPanelManageAdmins}, nil
	case "admin_manage:add":
		return Callback{Kind: ActionManageAdd}, nil
	case "admin_manage:remove":
		return Callback{Kind: ActionManageRemove}, nil
	case "admin_manage:list":
		return Callback{Kind: ActionManageList}, nil
	case "admin_manage:back_to_panel":
		return Callback{Kind: ActionManageBackToPanel}, nil
	case "admin_manage:back_to_management":
		return Callback{Kind: ActionManageBackToManagement}, nil
	case "send_now":
		return Callback{Kind: ActionSendNow}, nil
	case "send_schedule":
		return Callback{Kind: ActionSendSchedule}, nil
	}

	if rest, ok := strings.CutPrefix(data, "admin:"); ok {
		parts := strings.Split(rest, ":")
		if len(parts) != 3 {
			return Callback{}, fmt.Errorf("ParseCallback: malformed moderation payload %q", data)
		}

		decision := parts[0]
		if decision != DecisionApprove && decision != DecisionReject && decision != DecisionBonus {
			return Callback{}, fmt.Errorf("ParseCallback: unknown decision %q", decision)
		}

		submissionID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Callback{}, fmt.Errorf("ParseCallback: bad submission id in %q: %w", data, err)
		}

		userID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return Callback{}, fmt.Errorf("ParseCallback: bad user id in %q: %w", data, err)
		}

		return Callback{
			Kind:         ActionModerate,
			Decision:     decision,
			SubmissionID: submissionID,
			UserID:       userID,
		}, nil
	}

	if rest, ok := strings.CutPrefix(data, "admin_remove_user:"); ok {
		targetID, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Callback{}, fmt.Errorf("ParseCallback: bad target id in %q: %w", data, err)
		}

		return Callback{Kind: ActionRemoveAdmin, TargetID: targetID}, nil
	}

	return Callback{}, fmt.Errorf("ParseCallback: unknown payload %q", data)
}

func moderationCallbackData(decision string, submissionID, userID int64) string {
	return fmt.Sprintf("admin:%s:%d:%d", decision, submissionID, userID)
}

func removeAdminCallbackData(chatID int64) string {
	return fmt.Sprintf("admin_remove_user:%d", chatID)
}
