// Package stages defines the fixed project lifecycle stages and the
// read-only directory used to look them up.
package stages

// ID identifies a single workflow stage. The set of valid IDs is closed:
// projects move through these stages in display order and nothing else.
type ID string

const (
	Contact           ID = "contact"
	LeadCreation      ID = "lead_creation"
	GPSMapping        ID = "gps_mapping"
	VisitArrangement  ID = "visit_arrangement"
	SiteVisit         ID = "site_visit"
	DesignConcepts    ID = "design_concepts"
	DetailedDesign    ID = "detailed_design"
	BOMGeneration     ID = "bom_generation"
	Quotation         ID = "quotation"
	Discussion        ID = "discussion"
	Revisions         ID = "revisions"
	FinalQuote        ID = "final_quote"
	Agreement         ID = "agreement"
	ProjectCreation   ID = "project_creation"
	InvoiceGeneration ID = "invoice_generation"
	BOMVerification   ID = "bom_verification"
	PurchaseOrders    ID = "purchase_orders"
	RMPayment         ID = "rm_payment"
	ExpenseTracking   ID = "expense_tracking"
	Manufacturing     ID = "manufacturing"
	FinalPayments     ID = "final_payments"
	Delivery          ID = "delivery"
	Installation      ID = "installation"
	ServicePayments   ID = "service_payments"
	Completion        ID = "completion"
)

// AIActionType categorizes assistant notifications attached to a stage.
type AIActionType string

const (
	AIActionGreeting       AIActionType = "greeting"
	AIActionAdvice         AIActionType = "advice"
	AIActionRecommendation AIActionType = "recommendation"
	AIActionWarning        AIActionType = "warning"
	AIActionCelebration    AIActionType = "celebration"
)

// AIAction is a notification the assistant may deliver when a project
// enters a stage. Only actions with AutoExecute set are dispatched
// automatically; the rest wait for an operator.
type AIAction struct {
	ID               string       `json:"id"`
	Type             AIActionType `json:"type"`
	Message          string       `json:"message"`
	AutoExecute      bool         `json:"auto_execute"`
	RequiresApproval bool         `json:"requires_approval"`
}

// AutomationRule is a declarative condition/action pair fired at stage
// entry. Condition and Action are opaque to the engine; it only orders
// enabled rules by priority and hands them to the rule executor.
type AutomationRule struct {
	ID        string `json:"id"`
	Condition string `json:"condition"`
	Action    string `json:"action"`
	Enabled   bool   `json:"enabled"`
	Priority  int    `json:"priority"`
}

// Definition describes one stage of the project lifecycle. Definitions are
// static configuration: built once at startup and never mutated.
type Definition struct {
	ID                   ID               `json:"id"`
	Name                 string           `json:"name"`
	Description          string           `json:"description"`
	DisplayOrder         int              `json:"display_order"`
	RequiredActions      []string         `json:"required_actions"`
	NextStage            ID               `json:"next_stage,omitempty"` // empty only at the terminal stage
	AIActions            []AIAction       `json:"ai_actions"`
	AutomationRules      []AutomationRule `json:"automation_rules"`
	EstimatedDuration    float64          `json:"estimated_duration"` // hours
	IsManufacturingPhase bool             `json:"is_manufacturing_phase"`
}

// Terminal reports whether the stage has no successor.
func (d Definition) Terminal() bool {
	return d.NextStage == ""
}

func definitions() []Definition {
	return []Definition{
		{
			ID:              Contact,
			Name:            "Customer Contact",
			Description:     "Initial customer inquiry and lead capture",
			DisplayOrder:    1,
			RequiredActions: []string{"capture_info", "create_lead"},
			NextStage:       LeadCreation,
			AIActions: []AIAction{
				{
					ID:          "1",
					Type:        AIActionGreeting,
					Message:     "New customer contact! Let me help process this lead.",
					AutoExecute: true,
				},
			},
			EstimatedDuration: 0.5,
		},
		{
			ID:              LeadCreation,
			Name:            "Lead Creation",
			Description:     "Create lead record and assign to sales team",
			DisplayOrder:    2,
			RequiredActions: []string{"create_lead_record", "assign_staff"},
			NextStage:       GPSMapping,
			AutomationRules: []AutomationRule{
				{ID: "1", Condition: "stage_entered", Action: "auto_assign", Enabled: true, Priority: 10},
				{ID: "2", Condition: "stage_entered", Action: "notify", Enabled: true, Priority: 5},
			},
			EstimatedDuration: 1,
		},
		{
			ID:                GPSMapping,
			Name:              "GPS Mapping & Location",
			Description:       "Map customer location for visit arrangement",
			DisplayOrder:      3,
			RequiredActions:   []string{"map_location", "calculate_distance"},
			NextStage:         VisitArrangement,
			EstimatedDuration: 0.5,
		},
		{
			ID:                VisitArrangement,
			Name:              "Visit Arrangement",
			Description:       "Schedule site visit with customer",
			DisplayOrder:      4,
			RequiredActions:   []string{"schedule_visit", "confirm_appointment"},
			NextStage:         SiteVisit,
			EstimatedDuration: 1,
		},
		{
			ID:                SiteVisit,
			Name:              "Site Visit",
			Description:       "Visit customer site to understand requirements",
			DisplayOrder:      5,
			RequiredActions:   []string{"visit_site", "gather_requirements", "take_photos"},
			NextStage:         DesignConcepts,
			EstimatedDuration: 2,
		},
		{
			ID:                DesignConcepts,
			Name:              "Design Concepts",
			Description:       "Create initial design concepts",
			DisplayOrder:      6,
			RequiredActions:   []string{"create_concepts", "review_with_team"},
			NextStage:         DetailedDesign,
			EstimatedDuration: 8,
		},
		{
			ID:                DetailedDesign,
			Name:              "Detailed Design",
			Description:       "Develop detailed technical designs",
			DisplayOrder:      7,
			RequiredActions:   []string{"create_technical_drawings", "prepare_specifications"},
			NextStage:         BOMGeneration,
			EstimatedDuration: 16,
		},
		{
			ID:                BOMGeneration,
			Name:              "BOM Generation",
			Description:       "Generate Bill of Materials",
			DisplayOrder:      8,
			RequiredActions:   []string{"create_bom", "verify_costs"},
			NextStage:         Quotation,
			EstimatedDuration: 4,
		},
		{
			ID:              Quotation,
			Name:            "Quotation",
			Description:     "Prepare and send quote to customer",
			DisplayOrder:    9,
			RequiredActions: []string{"create_quote", "send_quote"},
			NextStage:       Discussion,
			AutomationRules: []AutomationRule{
				{ID: "1", Condition: "quote_unsent_24h", Action: "escalate", Enabled: true, Priority: 1},
			},
			EstimatedDuration: 2,
		},
		{
			ID:                Discussion,
			Name:              "Discussion & Negotiation",
			Description:       "Discuss quote with customer",
			DisplayOrder:      10,
			RequiredActions:   []string{"negotiate", "get_feedback"},
			NextStage:         Revisions,
			EstimatedDuration: 1,
		},
		{
			ID:                Revisions,
			Name:              "Revisions",
			Description:       "Make any requested revisions to design or quote",
			DisplayOrder:      11,
			RequiredActions:   []string{"update_design", "update_quote"},
			NextStage:         FinalQuote,
			EstimatedDuration: 2,
		},
		{
			ID:                FinalQuote,
			Name:              "Final Quote & Approval",
			Description:       "Finalize and get approval on quote",
			DisplayOrder:      12,
			RequiredActions:   []string{"finalize_quote", "get_approval"},
			NextStage:         Agreement,
			EstimatedDuration: 1,
		},
		{
			ID:              Agreement,
			Name:            "Customer Agreement",
			Description:     "Customer approves and project moves to execution",
			DisplayOrder:    13,
			RequiredActions: []string{"customer_approval", "project_kickoff"},
			NextStage:       ProjectCreation,
			AIActions: []AIAction{
				{
					ID:          "1",
					Type:        AIActionCelebration,
					Message:     "Excellent! Project approved! Time to create something amazing!",
					AutoExecute: true,
				},
			},
			EstimatedDuration: 1,
		},
		{
			ID:                   ProjectCreation,
			Name:                 "Project Creation",
			Description:          "Create official project and assign team",
			DisplayOrder:         14,
			RequiredActions:      []string{"create_project", "assign_team"},
			NextStage:            InvoiceGeneration,
			EstimatedDuration:    1,
			IsManufacturingPhase: true,
		},
		{
			ID:              InvoiceGeneration,
			Name:            "Invoice Generation",
			Description:     "Generate and send invoice",
			DisplayOrder:    15,
			RequiredActions: []string{"create_invoice", "send_invoice"},
			NextStage:       BOMVerification,
			AutomationRules: []AutomationRule{
				{ID: "1", Condition: "stage_entered", Action: "notify", Enabled: true, Priority: 1},
			},
			EstimatedDuration:    1,
			IsManufacturingPhase: true,
		},
		{
			ID:                   BOMVerification,
			Name:                 "BOM Verification & POs",
			Description:          "Verify BOM and create purchase orders",
			DisplayOrder:         16,
			RequiredActions:      []string{"verify_bom", "create_pos"},
			NextStage:            PurchaseOrders,
			EstimatedDuration:    2,
			IsManufacturingPhase: true,
		},
		{
			ID:                   PurchaseOrders,
			Name:                 "Purchase Orders",
			Description:          "Send POs to vendors",
			DisplayOrder:         17,
			RequiredActions:      []string{"send_pos", "track_delivery"},
			NextStage:            RMPayment,
			EstimatedDuration:    1,
			IsManufacturingPhase: true,
		},
		{
			ID:                   RMPayment,
			Name:                 "RM Payment & Service Allocation",
			Description:          "Process payments for materials and allocate services",
			DisplayOrder:         18,
			RequiredActions:      []string{"pay_vendors", "allocate_services"},
			NextStage:            ExpenseTracking,
			EstimatedDuration:    1,
			IsManufacturingPhase: true,
		},
		{
			ID:                   ExpenseTracking,
			Name:                 "Expense Tracking",
			Description:          "Track all project expenses",
			DisplayOrder:         19,
			RequiredActions:      []string{"record_expenses", "verify_receipts"},
			NextStage:            Manufacturing,
			EstimatedDuration:    1,
			IsManufacturingPhase: true,
		},
		{
			ID:              Manufacturing,
			Name:            "Manufacturing & Assembly",
			Description:     "Actual manufacturing and assembly work",
			DisplayOrder:    20,
			RequiredActions: []string{"cnc_production", "assembly", "quality_check"},
			NextStage:       FinalPayments,
			AIActions: []AIAction{
				{
					ID:      "1",
					Type:    AIActionAdvice,
					Message: "Remember to maintain quality standards and document progress",
				},
			},
			EstimatedDuration:    40,
			IsManufacturingPhase: true,
		},
		{
			ID:                   FinalPayments,
			Name:                 "Final Payments",
			Description:          "Process final payments to vendors and contractors",
			DisplayOrder:         21,
			RequiredActions:      []string{"process_final_payments", "verify_receipts"},
			NextStage:            Delivery,
			EstimatedDuration:    1,
			IsManufacturingPhase: true,
		},
		{
			ID:                   Delivery,
			Name:                 "Delivery & Installation",
			Description:          "Deliver and install product at customer site",
			DisplayOrder:         22,
			RequiredActions:      []string{"arrange_delivery", "install", "test"},
			NextStage:            Installation,
			EstimatedDuration:    4,
			IsManufacturingPhase: true,
		},
		{
			ID:                   Installation,
			Name:                 "Installation Setup",
			Description:          "Complete installation and customer training",
			DisplayOrder:         23,
			RequiredActions:      []string{"complete_setup", "train_customer"},
			NextStage:            ServicePayments,
			EstimatedDuration:    2,
			IsManufacturingPhase: true,
		},
		{
			ID:                   ServicePayments,
			Name:                 "Service Payments & Reconciliation",
			Description:          "Finalize all service payments and reconciliation",
			DisplayOrder:         24,
			RequiredActions:      []string{"finalize_payments", "reconcile"},
			NextStage:            Completion,
			EstimatedDuration:    1,
			IsManufacturingPhase: true,
		},
		{
			ID:              Completion,
			Name:            "Project Completion",
			Description:     "Project complete",
			DisplayOrder:    25,
			RequiredActions: []string{"collect_feedback", "archive"},
			AIActions: []AIAction{
				{
					ID:          "1",
					Type:        AIActionCelebration,
					Message:     "Project complete! Fantastic work team! Let's celebrate this success!",
					AutoExecute: true,
				},
			},
			IsManufacturingPhase: true,
		},
	}
}
