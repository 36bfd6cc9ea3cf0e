package resource

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/openplat/openplat/pkg/metadata"
	"github.com/openplat/openplat/pkg/telemetry"
)

// ResourceInitializer drives the validation and creation of the resources a
// set of components depend on. Which resources are in scope depends on the
// stage:
//
//   - Init covers shared resources, created once before any service starts.
//   - Service covers resources owned by the services being started.
//   - Test covers unowned resources of the components under test that no
//     started service will create.
//
// The initializer holds no state between calls and is idempotent as long as
// the registered handlers are.
type ResourceInitializer struct {
	handlers  *metadata.HandlerRegistry
	validator *ComponentValidator
	logger    zerolog.Logger
	metrics   *telemetry.Metrics
	tracer    *telemetry.Tracer
	events    *telemetry.EventPublisher
}

// Option configures a ResourceInitializer.
type Option func(*ResourceInitializer)

// WithLogger sets the logger used for stage progress logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(ri *ResourceInitializer) { ri.logger = logger }
}

// WithMetrics enables stage and handler metrics.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(ri *ResourceInitializer) { ri.metrics = metrics }
}

// WithTracer enables stage and handler tracing.
func WithTracer(tracer *telemetry.Tracer) Option {
	return func(ri *ResourceInitializer) { ri.tracer = tracer }
}

// WithEvents publishes timeline events to the given publisher.
func WithEvents(events *telemetry.EventPublisher) Option {
	return func(ri *ResourceInitializer) { ri.events = events }
}

// NewResourceInitializer creates an initializer that dispatches resource
// work to the given handler registry.
func NewResourceInitializer(handlers *metadata.HandlerRegistry, opts ...Option) *ResourceInitializer {
	ri := &ResourceInitializer{
		handlers:  handlers,
		validator: NewComponentValidator(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(ri)
	}
	return ri
}

// Init validates the components and ensures every shared resource they
// reference exists. Run once per platform, before services start.
func (ri *ResourceInitializer) Init(ctx context.Context, components []metadata.ComponentDescriptor) error {
	return ri.run(ctx, "init", components, func(group resourceGroup) bool {
		return group.anyShared()
	}, false)
}

// Service validates the components and ensures every resource owned by them
// exists. Run when the components are about to be started.
func (ri *ResourceInitializer) Service(ctx context.Context, components []metadata.ComponentDescriptor) error {
	return ri.run(ctx, "service", components, func(group resourceGroup) bool {
		return group.anyOwned()
	}, true)
}

// Test validates all components and ensures every resource the underTest
// components consume that none of them owns, i.e. the resources that must
// exist for testing but whose owning service is not part of the test. Other
// components supply additional, potentially creatable, descriptors for those
// resources; their remaining resources are left alone.
func (ri *ResourceInitializer) Test(ctx context.Context, underTest, other []metadata.ComponentDescriptor) error {
	ri.logStage("test", underTest)

	timer := ri.metrics.StartStageTimer("test")
	defer timer.ObserveDuration()

	ctx, span := ri.tracer.StartStageSpan(ctx, "test", len(underTest)+len(other))
	defer span.End()

	groups, err := ri.groupByID(underTest, func(group resourceGroup) bool {
		return group.anyUnowned() && !group.anyOwned()
	}, true)
	if err != nil {
		ri.publishStageResult("test", err)
		return err
	}

	index := make(map[string]int, len(groups))
	for i, group := range groups {
		index[group.id] = i
	}

	// Descriptors published by other components for the same resource ids
	// are merged in. They often carry the creatable descriptor the
	// under-test components lack. Groups for unrelated ids are ignored
	// and not validated.
	otherGroups, err := ri.groupByID(other, func(group resourceGroup) bool {
		_, selected := index[group.id]
		return selected
	}, false)
	if err != nil {
		ri.publishStageResult("test", err)
		return err
	}
	for _, group := range otherGroups {
		i := index[group.id]
		groups[i].descriptors = append(groups[i].descriptors, group.descriptors...)
	}

	err = ri.ensureResources(ctx, "test", groups)
	ri.publishStageResult("test", err)
	return err
}

func (ri *ResourceInitializer) run(
	ctx context.Context,
	stage string,
	components []metadata.ComponentDescriptor,
	selects func(resourceGroup) bool,
	validateUnselected bool,
) error {
	ri.logStage(stage, components)

	timer := ri.metrics.StartStageTimer(stage)
	defer timer.ObserveDuration()

	ctx, span := ri.tracer.StartStageSpan(ctx, stage, len(components))
	defer span.End()

	groups, err := ri.groupByID(components, selects, validateUnselected)
	if err != nil {
		ri.publishStageResult(stage, err)
		return err
	}
	err = ri.ensureResources(ctx, stage, groups)
	ri.publishStageResult(stage, err)
	return err
}

// resourceGroup holds every descriptor published for a single resource id,
// in discovery order.
type resourceGroup struct {
	id          string
	descriptors []metadata.ResourceDescriptor
}

func (g resourceGroup) anyOwned() bool {
	for _, d := range g.descriptors {
		if d.Initialization().IsOwned() {
			return true
		}
	}
	return false
}

func (g resourceGroup) anyUnowned() bool {
	for _, d := range g.descriptors {
		if d.Initialization().IsUnowned() {
			return true
		}
	}
	return false
}

func (g resourceGroup) anyShared() bool {
	for _, d := range g.descriptors {
		if d.Initialization().IsShared() {
			return true
		}
	}
	return false
}

// groupByID validates the components, flattens their transitive resource
// sets and groups the descriptors by resource id, preserving discovery
// order. Groups the predicate rejects are dropped; when validateUnselected
// is set they are tag-consistency checked first, so a conflict between
// components is reported even when the stage will not touch the resource.
func (ri *ResourceInitializer) groupByID(
	components []metadata.ComponentDescriptor,
	selects func(resourceGroup) bool,
	validateUnselected bool,
) ([]resourceGroup, error) {
	if err := ri.validator.Validate(components...); err != nil {
		ri.metrics.RecordValidationFailure()
		return nil, err
	}
	ri.metrics.RecordComponentsValidated(len(components))
	for _, component := range components {
		ri.events.Publish(telemetry.Event{
			Type:      telemetry.EventComponentValidated,
			Component: component.Name(),
		})
	}

	var order []string
	grouped := make(map[string][]metadata.ResourceDescriptor)
	for _, component := range components {
		for _, r := range metadata.CollectComponentResources(component) {
			if _, seen := grouped[r.ID()]; !seen {
				order = append(order, r.ID())
			}
			grouped[r.ID()] = append(grouped[r.ID()], r)
		}
	}

	var selected []resourceGroup
	for _, id := range order {
		group := resourceGroup{id: id, descriptors: grouped[id]}
		if selects(group) {
			selected = append(selected, group)
			continue
		}
		if validateUnselected {
			if err := ri.validateGroup(group); err != nil {
				return nil, err
			}
		}
	}
	return selected, nil
}

// ensureResources runs the ensure pipeline over the selected groups: tag
// consistency, handler validation, creatable selection, then one Ensure call
// per resource type. Handler errors are returned unchanged.
func (ri *ResourceInitializer) ensureResources(ctx context.Context, stage string, groups []resourceGroup) error {
	var typeOrder []string
	byType := make(map[string][]metadata.ResourceDescriptor)

	for _, group := range groups {
		if err := ri.validateGroup(group); err != nil {
			return err
		}

		creatable, ok := creatableDescriptor(group)
		if !ok {
			ri.metrics.RecordUncreatableResource()
			return &UncreatableResourceError{Descriptors: group.descriptors}
		}

		if _, seen := byType[creatable.Type()]; !seen {
			typeOrder = append(typeOrder, creatable.Type())
		}
		byType[creatable.Type()] = append(byType[creatable.Type()], creatable)
	}
	ri.metrics.RecordResourceGroups(len(groups))

	for _, resourceType := range typeOrder {
		handler, err := ri.handlers.Get(resourceType)
		if err != nil {
			return err
		}
		descriptors := byType[resourceType]

		ri.logger.Debug().
			Str("resource_type", resourceType).
			Strs("resources", descriptorIDs(descriptors)).
			Msg("Ensuring resources")

		_, span := ri.tracer.StartHandlerSpan(ctx, resourceType, "ensure", len(descriptors))
		ri.metrics.RecordHandlerCall(resourceType, "ensure")
		err = handler.Ensure(descriptors)
		ri.tracer.EndSpan(span, err)
		if err != nil {
			ri.metrics.RecordHandlerError(resourceType, "ensure")
			return err
		}

		for _, d := range descriptors {
			ri.events.Publish(telemetry.Event{
				Type:         telemetry.EventResourceEnsured,
				Stage:        stage,
				ResourceID:   d.ID(),
				ResourceType: d.Type(),
			})
		}
	}
	return nil
}

// publishStageResult emits the stage completion or failure event.
func (ri *ResourceInitializer) publishStageResult(stage string, err error) {
	event := telemetry.Event{Type: telemetry.EventStageCompleted, Stage: stage}
	if err != nil {
		event.Type = telemetry.EventStageFailed
		event.Error = err.Error()
	}
	ri.events.Publish(event)
}

// validateGroup runs the full cross-descriptor consistency check on a group:
// tag consistency first, then the per-type handler validation. Applied to
// every selected group and, when the stage demands it, to skipped groups too,
// so a conflict in a resource the stage will not create still aborts the call.
func (ri *ResourceInitializer) validateGroup(group resourceGroup) error {
	if err := ri.validateResourceGroup(group); err != nil {
		return err
	}
	return ri.handlerValidate(group)
}

// validateResourceGroup checks that every descriptor in the group agrees
// with the first one on how the resource is initialized: shared and
// unmanaged groups must be uniform, otherwise the group must contain only
// owned and unowned descriptors.
func (ri *ResourceInitializer) validateResourceGroup(group resourceGroup) error {
	first := group.descriptors[0].Initialization()

	matches := func(init metadata.Initialization) bool {
		switch {
		case first.IsShared():
			return init.IsShared()
		case first.IsUnmanaged():
			return init.IsUnmanaged()
		default:
			return init.IsOwned() || init.IsUnowned()
		}
	}

	for _, d := range group.descriptors[1:] {
		if !matches(d.Initialization()) {
			return &MismatchedResourceError{Kind: first, Descriptors: group.descriptors}
		}
	}
	return nil
}

// handlerValidate gives each resource type's handler a chance to reject the
// group, e.g. because components disagree on resource details.
func (ri *ResourceInitializer) handlerValidate(group resourceGroup) error {
	var typeOrder []string
	byType := make(map[string][]metadata.ResourceDescriptor)
	for _, d := range group.descriptors {
		if _, seen := byType[d.Type()]; !seen {
			typeOrder = append(typeOrder, d.Type())
		}
		byType[d.Type()] = append(byType[d.Type()], d)
	}

	for _, resourceType := range typeOrder {
		handler, err := ri.handlers.Get(resourceType)
		if err != nil {
			return err
		}
		ri.metrics.RecordHandlerCall(resourceType, "validate")
		if err := handler.Validate(byType[resourceType]); err != nil {
			ri.metrics.RecordHandlerError(resourceType, "validate")
			return err
		}
	}
	return nil
}

// creatableDescriptor returns the group's first creatable descriptor.
func creatableDescriptor(group resourceGroup) (metadata.ResourceDescriptor, bool) {
	for _, d := range group.descriptors {
		if d.Initialization().Creatable() {
			return d, true
		}
	}
	return nil, false
}

func (ri *ResourceInitializer) logStage(stage string, components []metadata.ComponentDescriptor) {
	names := make([]string, len(components))
	for i, c := range components {
		if c != nil {
			names[i] = c.Name()
		}
	}
	ri.logger.Debug().
		Str("stage", stage).
		Strs("components", names).
		Msg("Initializing resources")
	ri.events.Publish(telemetry.Event{Type: telemetry.EventStageStarted, Stage: stage})
}

func descriptorIDs(descriptors []metadata.ResourceDescriptor) []string {
	ids := make([]string, len(descriptors))
	for i, d := range descriptors {
		ids[i] = d.ID()
	}
	return ids
}
