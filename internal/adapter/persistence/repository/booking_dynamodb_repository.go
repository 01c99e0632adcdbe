package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"sports_booking/internal/domain/entities"
	"sports_booking/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultBookingsTableName      = "bookings"
	defaultBookingExtrasTableName = "booking_extras"
	defaultCountersTableName      = "counters"

	bookingCounterName = "bookings"
)

// DynamoDBAPI is the subset of *dynamodb.Client used by the booking store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// BookingTables names the three tables backing the store.
type BookingTables struct {
	Bookings string
	Extras   string
	Counters string
}

type bookingItem struct {
	ID            int64    `dynamodbav:"id"`
	CourtID       int64    `dynamodbav:"court_id"`
	SlotID        int64    `dynamodbav:"slot_id"`
	Status        string   `dynamodbav:"status"`
	EstimateTotal float64  `dynamodbav:"estimate_total"`
	PaidTotal     *float64 `dynamodbav:"paid_total,omitempty"`
	LockRef       string   `dynamodbav:"lock_ref,omitempty"`
	InvoiceID     string   `dynamodbav:"invoice_id,omitempty"`
	InvoiceURL    string   `dynamodbav:"invoice_url,omitempty"`
	Notes         string   `dynamodbav:"notes,omitempty"`
	CreatedAt     string   `dynamodbav:"created_at"`
	UpdatedAt     string   `dynamodbav:"updated_at"`
}

type bookingExtraItem struct {
	BookingID int64   `dynamodbav:"booking_id"`
	Line      int     `dynamodbav:"line"`
	Type      string  `dynamodbav:"type"`
	Quantity  int     `dynamodbav:"qty"`
	UnitPrice float64 `dynamodbav:"price"`
}

// BookingDynamoRepository persists bookings in DynamoDB.
//
// Table requirements:
//   - bookings: PK id (number)
//   - booking_extras: PK booking_id (number), SK line (number)
//   - counters: PK name (string); holds the integer id sequence
//
// Booking and extras rows are written in one TransactWriteItems call. Status
// changes are conditional updates on the stored status.
type BookingDynamoRepository struct {
	ddb    DynamoDBAPI
	tables BookingTables
	now    func() time.Time
}

var _ interfaces.IBookingRepository = (*BookingDynamoRepository)(nil)

func NewBookingDynamoRepository(ddb DynamoDBAPI, tables BookingTables) *BookingDynamoRepository {
	return &BookingDynamoRepository{
		ddb: ddb,
		tables: BookingTables{
			Bookings: defaultString(tables.Bookings, defaultBookingsTableName),
			Extras:   defaultString(tables.Extras, defaultBookingExtrasTableName),
			Counters: defaultString(tables.Counters, defaultCountersTableName),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *BookingDynamoRepository) Create(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return entities.Booking{}, fmt.Errorf("allocate booking id: %w", err)
	}
	now := r.now()
	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now

	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		return entities.Booking{}, err
	}
	writes := []types.TransactWriteItem{{
		Put: &types.Put{
			TableName:           aws.String(r.tables.Bookings),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{
				"#id": "id",
			},
		},
	}}
	for _, it := range toBookingExtraItems(b.ID, b.Extras) {
		extraAV, err := attributevalue.MarshalMap(it)
		if err != nil {
			return entities.Booking{}, err
		}
		writes = append(writes, types.TransactWriteItem{
			Put: &types.Put{TableName: aws.String(r.tables.Extras), Item: extraAV},
		})
	}

	if _, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes}); err != nil {
		return entities.Booking{}, err
	}
	if b.Extras == nil {
		b.Extras = []entities.BookingExtra{}
	}
	return b, nil
}

func (r *BookingDynamoRepository) GetByID(ctx context.Context, id int64) (entities.Booking, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tables.Bookings),
		Key:            bookingKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Booking{}, err
	}
	if len(out.Item) == 0 {
		return entities.Booking{}, nil
	}
	return r.hydrate(ctx, out.Item)
}

func (r *BookingDynamoRepository) List(ctx context.Context) ([]entities.Booking, error) {
	extras := make(map[int64][]bookingExtraItem)
	extraPages := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{TableName: aws.String(r.tables.Extras)})
	for extraPages.HasMorePages() {
		page, err := extraPages.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []bookingExtraItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			extras[it.BookingID] = append(extras[it.BookingID], it)
		}
	}

	bookings := make([]entities.Booking, 0)
	pages := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{TableName: aws.String(r.tables.Bookings)})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []bookingItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			bookings = append(bookings, fromBookingItem(it, extras[it.ID]))
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
	return bookings, nil
}

func (r *BookingDynamoRepository) UpdateStatus(ctx context.Context, id int64, from, to entities.BookingStatus) (entities.Booking, error) {
	expr := "SET #status = :to, #updated_at = :updated_at"
	names := map[string]string{"#status": "status", "#updated_at": "updated_at"}
	if to.IsTerminal() {
		expr += " REMOVE #lock_ref"
		names["#lock_ref"] = "lock_ref"
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tables.Bookings),
		Key:                 bookingKey(id),
		ConditionExpression: aws.String("#status = :from"),
		UpdateExpression:    aws.String(expr),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from":       &types.AttributeValueMemberS{Value: string(from)},
			":to":         &types.AttributeValueMemberS{Value: string(to)},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(r.now())},
		},
		ExpressionAttributeNames: names,
		ReturnValues:             types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Booking{}, entities.ErrStatusConflict
		}
		return entities.Booking{}, err
	}
	return r.hydrate(ctx, out.Attributes)
}

func (r *BookingDynamoRepository) SetLockRef(ctx context.Context, id int64, lockRef string) (entities.Booking, error) {
	b, err := r.update(ctx, id, "#status = :created", func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		return "SET #lock_ref = :lock_ref, #updated_at = :updated_at",
			map[string]types.AttributeValue{
				":lock_ref":   &types.AttributeValueMemberS{Value: lockRef},
				":updated_at": &types.AttributeValueMemberS{Value: now},
				":created":    &types.AttributeValueMemberS{Value: string(entities.BookingStatusCreated)},
			},
			map[string]string{"#lock_ref": "lock_ref", "#updated_at": "updated_at", "#status": "status"}
	})
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) || (err == nil && !b.Exists()) {
		return entities.Booking{}, entities.ErrStatusConflict
	}
	return b, err
}

func (r *BookingDynamoRepository) SetPaidTotal(ctx context.Context, id int64, amount float64) (entities.Booking, error) {
	b, err := r.update(ctx, id, "attribute_not_exists(#paid_total)", func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		return "SET #paid_total = :paid_total, #updated_at = :updated_at",
			map[string]types.AttributeValue{
				":paid_total": &types.AttributeValueMemberN{Value: floatToString(amount)},
				":updated_at": &types.AttributeValueMemberS{Value: now},
			},
			map[string]string{"#paid_total": "paid_total", "#updated_at": "updated_at"}
	})
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		return entities.Booking{}, entities.ErrPaidTotalAlreadySet
	}
	return b, err
}

func (r *BookingDynamoRepository) SetInvoice(ctx context.Context, id int64, invoiceID, invoiceURL string) (entities.Booking, error) {
	return r.update(ctx, id, "", func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		return "SET #invoice_id = :invoice_id, #invoice_url = :invoice_url, #updated_at = :updated_at",
			map[string]types.AttributeValue{
				":invoice_id":  &types.AttributeValueMemberS{Value: invoiceID},
				":invoice_url": &types.AttributeValueMemberS{Value: invoiceURL},
				":updated_at":  &types.AttributeValueMemberS{Value: now},
			},
			map[string]string{"#invoice_id": "invoice_id", "#invoice_url": "invoice_url", "#updated_at": "updated_at"}
	})
}

func (r *BookingDynamoRepository) Delete(ctx context.Context, id int64) error {
	extras, err := r.queryExtras(ctx, id)
	if err != nil {
		return err
	}
	writes := []types.TransactWriteItem{{
		Delete: &types.Delete{TableName: aws.String(r.tables.Bookings), Key: bookingKey(id)},
	}}
	for _, it := range extras {
		writes = append(writes, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(r.tables.Extras),
				Key: map[string]types.AttributeValue{
					"booking_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
					"line":       &types.AttributeValueMemberN{Value: strconv.Itoa(it.Line)},
				},
			},
		})
	}
	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
	return err
}

// update applies a conditional UpdateItem on an existing booking. A missing
// booking yields a zero Booking and nil error; any other failed extra
// condition is returned as the raw ConditionalCheckFailedException.
func (r *BookingDynamoRepository) update(
	ctx context.Context,
	id int64,
	extraCondition string,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.Booking, error) {
	updateExpr, values, names := build(formatTime(r.now()))
	condition := "attribute_exists(#id)"
	if extraCondition != "" {
		condition += " AND " + extraCondition
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(r.tables.Bookings),
		Key:                                 bookingKey(id),
		ConditionExpression:                 aws.String(condition),
		UpdateExpression:                    aws.String(updateExpr),
		ExpressionAttributeValues:           values,
		ExpressionAttributeNames:            mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) && (extraCondition == "" || len(cfe.Item) == 0) {
			return entities.Booking{}, nil
		}
		return entities.Booking{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Booking{}, nil
	}
	return r.hydrate(ctx, out.Attributes)
}

func (r *BookingDynamoRepository) nextID(ctx context.Context) (int64, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tables.Counters),
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: bookingCounterName},
		},
		UpdateExpression:         aws.String("ADD #value :one"),
		ExpressionAttributeNames: map[string]string{"#value": "value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}
	var counter struct {
		Value int64 `dynamodbav:"value"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &counter); err != nil {
		return 0, err
	}
	if counter.Value <= 0 {
		return 0, fmt.Errorf("counter %q returned %d", bookingCounterName, counter.Value)
	}
	return counter.Value, nil
}

func (r *BookingDynamoRepository) hydrate(ctx context.Context, raw map[string]types.AttributeValue) (entities.Booking, error) {
	var it bookingItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Booking{}, err
	}
	extras, err := r.queryExtras(ctx, it.ID)
	if err != nil {
		return entities.Booking{}, err
	}
	return fromBookingItem(it, extras), nil
}

func (r *BookingDynamoRepository) queryExtras(ctx context.Context, bookingID int64) ([]bookingExtraItem, error) {
	var out []bookingExtraItem
	pages := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.Extras),
		KeyConditionExpression: aws.String("booking_id = :bid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":bid": &types.AttributeValueMemberN{Value: strconv.FormatInt(bookingID, 10)},
		},
		ConsistentRead: aws.Bool(true),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []bookingExtraItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func bookingKey(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
	}
}

func toBookingItem(b entities.Booking) bookingItem {
	return bookingItem{
		ID:            b.ID,
		CourtID:       b.CourtID,
		SlotID:        b.SlotID,
		Status:        string(b.Status),
		EstimateTotal: b.EstimateTotal,
		PaidTotal:     b.PaidTotal,
		LockRef:       b.LockRef,
		InvoiceID:     b.InvoiceID,
		InvoiceURL:    b.InvoiceURL,
		Notes:         b.Notes,
		CreatedAt:     formatTime(b.CreatedAt),
		UpdatedAt:     formatTime(b.UpdatedAt),
	}
}

func toBookingExtraItems(bookingID int64, extras []entities.BookingExtra) []bookingExtraItem {
	out := make([]bookingExtraItem, 0, len(extras))
	for i, e := range extras {
		out = append(out, bookingExtraItem{
			BookingID: bookingID,
			Line:      i + 1,
			Type:      e.Type,
			Quantity:  e.Quantity,
			UnitPrice: e.UnitPrice,
		})
	}
	return out
}

func fromBookingItem(it bookingItem, extras []bookingExtraItem) entities.Booking {
	sort.Slice(extras, func(i, j int) bool { return extras[i].Line < extras[j].Line })
	lines := make([]entities.BookingExtra, 0, len(extras))
	for _, e := range extras {
		lines = append(lines, entities.BookingExtra{Type: e.Type, UnitPrice: e.UnitPrice, Quantity: e.Quantity})
	}
	return entities.Booking{
		ID:            it.ID,
		CourtID:       it.CourtID,
		SlotID:        it.SlotID,
		Status:        entities.BookingStatus(it.Status),
		Extras:        lines,
		EstimateTotal: it.EstimateTotal,
		PaidTotal:     it.PaidTotal,
		LockRef:       it.LockRef,
		InvoiceID:     it.InvoiceID,
		InvoiceURL:    it.InvoiceURL,
		Notes:         it.Notes,
		CreatedAt:     parseTime(it.CreatedAt),
		UpdatedAt:     parseTime(it.UpdatedAt),
	}
}
