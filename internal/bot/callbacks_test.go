package bot

import "testing"

func TestParseCallbackModeration(t *testing.T) {
	cb, err := ParseCallback("admin:approve:42:100500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cb.Kind != ActionModerate || cb.Decision != DecisionApprove {
		t.Fatalf("got kind=%d decision=%q", cb.Kind, cb.Decision)
	}
	if cb.SubmissionID != 42 || cb.UserID != 100500 {
		t.Fatalf("got submission=%d user=%d", cb.SubmissionID, cb.UserID)
	}
}

func TestParseCallbackRoundTrip(t *testing.T) {
	data := moderationCallbackData(DecisionBonus, 7, 12345)

	cb, err := ParseCallback(data)
	if err != nil {
		t.Fatalf("unexpected error for %q: %v", data, err)
	}
	if cb.Decision != DecisionBonus || cb.SubmissionID != 7 || cb.UserID != 12345 {
		t.Fatalf("round trip mismatch: %+v", cb)
	}
}

func TestParseCallbackRemoveAdmin(t *testing.T) {
	cb, err := ParseCallback("admin_remove_user:555")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cb.Kind != ActionRemoveAdmin || cb.TargetID != 555 {
		t.Fatalf("got kind=%d target=%d", cb.Kind, cb.TargetID)
	}
}

func TestParseCallbackRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"nonsense",
		"admin:approve:42",
		"admin:approve:42:100500:extra",
		"admin:promote:42:100500",
		"admin:approve:abc:100500",
		"admin:approve:42:abc",
		"admin_remove_user:abc",
	}

	for _, data := range bad {
		if _, err := ParseCallback(data); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}

func TestParseCallbackFixedPayloads(t *testing.T) {
	cases := map[string]ActionKind{
		"start_submission":       ActionStartSubmission,
		"confirm_yes":            ActionConfirmYes,
		"confirm_no":             ActionConfirmNo,
		"cancel_submission":      ActionCancelSubmission,
		"reject_no_reason":       ActionRejectNoReason,
		"admin_panel:get_db":     ActionPanelExport,
		"admin_manage:add":       ActionManageAdd,
		"admin_remove_user:1":    ActionRemoveAdmin,
		"send_now":               ActionSendNow,
		"send_schedule":          ActionSendSchedule,
		"admin_panel:send_reminder": ActionPanelReminder,
	}

	for data, want := range cases {
		cb, err := ParseCallback(data)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", data, err)
		}
		if cb.Kind != want {
			t.Errorf("%q: got kind %d, want %d", data, cb.Kind, want)
		}
	}
}
