package domain

// FunnelGroup is a named cluster of adjacent stages sharing a business phase.
type FunnelGroup string

const (
	FunnelLead      FunnelGroup = "lead"
	FunnelHandoff   FunnelGroup = "handoff"
	FunnelQuoting   FunnelGroup = "quoting"
	FunnelPaperwork FunnelGroup = "paperwork"
	FunnelLogistics FunnelGroup = "logistics"
	FunnelExecution FunnelGroup = "execution"
	FunnelCloseout  FunnelGroup = "closeout"
	FunnelSpecial   FunnelGroup = "special"
)

const (
	StatusNewLead                = "new_lead"
	StatusContacted              = "contacted"
	StatusMeasurementNeeded      = "measurement_needed"
	StatusMeasurementScheduled   = "measurement_scheduled"
	StatusMeasurementDone        = "measurement_done"
	StatusQuoteDraft             = "quote_draft"
	StatusQuoteSent              = "quote_sent"
	StatusQuoteAccepted          = "quote_accepted"
	StatusContractSent           = "contract_sent"
	StatusFirstPaymentPending    = "first_payment_pending"
	StatusMaterialsOrdered       = "materials_ordered"
	StatusMaterialsDelivered     = "materials_delivered"
	StatusInstallationScheduled  = "installation_scheduled"
	StatusInstallationInProgress = "installation_in_progress"
	StatusFinalInvoicePending    = "final_invoice_pending"
	StatusCompleted              = "completed"
	StatusOnHold                 = "on_hold"
	StatusRejected               = "rejected"

	// StatusUnknown is the synthetic board bucket for montages whose stored
	// status is no longer present in the catalog. It never appears in the
	// catalog itself and must never block list rendering.
	StatusUnknown = "unknown"
)

// Stage is one discrete position in the pipeline's lifecycle.
type Stage struct {
	Value       string
	Label       string
	Description string
	Funnel      FunnelGroup
}

// stageCatalog defines every status, its human label and funnel group. The
// slice order defines board-column order. Adding a stage is a catalog edit;
// existing montages are not migrated.
var stageCatalog = []Stage{
	{StatusNewLead, "Nieuwe lead", "Fresh request, not yet contacted", FunnelLead},
	{StatusContacted, "Contact gelegd", "Client reached, intake in progress", FunnelLead},
	{StatusMeasurementNeeded, "Inmeten nodig", "Awaiting measurer assignment", FunnelHandoff},
	{StatusMeasurementScheduled, "Inmeten gepland", "Measurement visit scheduled", FunnelHandoff},
	{StatusMeasurementDone, "Ingemeten", "Measurement report received", FunnelHandoff},
	{StatusQuoteDraft, "Offerte concept", "Quote being drafted", FunnelQuoting},
	{StatusQuoteSent, "Offerte verstuurd", "Quote sent to client", FunnelQuoting},
	{StatusQuoteAccepted, "Offerte akkoord", "Client accepted the quote", FunnelQuoting},
	{StatusContractSent, "Contract verstuurd", "Contract out for signing", FunnelPaperwork},
	{StatusFirstPaymentPending, "Aanbetaling open", "Waiting for first payment", FunnelPaperwork},
	{StatusMaterialsOrdered, "Materiaal besteld", "Flooring ordered at supplier", FunnelLogistics},
	{StatusMaterialsDelivered, "Materiaal geleverd", "Material on site or in depot", FunnelLogistics},
	{StatusInstallationScheduled, "Montage gepland", "Installation date agreed", FunnelLogistics},
	{StatusInstallationInProgress, "Montage bezig", "Crew on site", FunnelExecution},
	{StatusFinalInvoicePending, "Eindfactuur open", "Work done, final invoice out", FunnelCloseout},
	{StatusCompleted, "Afgerond", "Paid and closed", FunnelCloseout},
	{StatusOnHold, "In de wacht", "Paused at client's request", FunnelSpecial},
	{StatusRejected, "Afgewezen", "Lost or cancelled", FunnelSpecial},
}

var stagesByValue = func() map[string]Stage {
	m := make(map[string]Stage, len(stageCatalog))
	for _, s := range stageCatalog {
		m[s.Value] = s
	}
	return m
}()

// Stages returns the ordered stage catalog. The returned slice is a copy.
func Stages() []Stage {
	out := make([]Stage, len(stageCatalog))
	copy(out, stageCatalog)
	return out
}

// StageByValue looks up a stage by its status value.
func StageByValue(value string) (Stage, bool) {
	s, ok := stagesByValue[value]
	return s, ok
}

// IsKnownStatus reports whether the status exists in the stage catalog.
func IsKnownStatus(value string) bool {
	_, ok := stagesByValue[value]
	return ok
}

// StatusLabel returns the human label for a status, or the unknown label for
// statuses that were removed from the catalog.
func StatusLabel(value string) string {
	if s, ok := stagesByValue[value]; ok {
		return s.Label
	}
	return "Onbekend/verwijderd"
}

// freshLeadStatuses are statuses where the montage is still an untriaged
// lead. Fresh leads are exempt from measurer and schedule-date alerts.
var freshLeadStatuses = map[string]bool{
	StatusNewLead:   true,
	StatusContacted: true,
}

// preMeasurementStatuses are statuses where a measurer should be on the job.
var preMeasurementStatuses = map[string]bool{
	StatusMeasurementNeeded:    true,
	StatusMeasurementScheduled: true,
}

// preInstallationStatuses are statuses between first measurement contact and
// the start of execution, where an installer assignment is expected.
var preInstallationStatuses = map[string]bool{
	StatusMeasurementNeeded:     true,
	StatusMeasurementScheduled:  true,
	StatusMeasurementDone:       true,
	StatusQuoteDraft:            true,
	StatusQuoteSent:             true,
	StatusQuoteAccepted:         true,
	StatusContractSent:          true,
	StatusFirstPaymentPending:   true,
	StatusMaterialsOrdered:      true,
	StatusMaterialsDelivered:    true,
	StatusInstallationScheduled: true,
}

// materialExpectedStatuses are statuses after quote acceptance where having
// no material movement at all is a problem.
var materialExpectedStatuses = map[string]bool{
	StatusQuoteAccepted:         true,
	StatusContractSent:          true,
	StatusFirstPaymentPending:   true,
	StatusInstallationScheduled: true,
}

// terminalStatuses are statuses where the pipeline is finished for this
// montage, won or lost.
var terminalStatuses = map[string]bool{
	StatusCompleted: true,
	StatusRejected:  true,
}

// IsFreshLead reports whether the status is still in the lead funnel.
func IsFreshLead(status string) bool { return freshLeadStatuses[status] }

// IsTerminalStatus reports whether the status ends the pipeline.
func IsTerminalStatus(status string) bool { return terminalStatuses[status] }
