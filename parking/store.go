package parking

import (
	"context"
	"strings"
	"time"

	"worknest/db"
	"worknest/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// claim is a per-day lock document. Its _id is either
// "slot:<slotId>:<day>" or "user:<userId>:<day>", so inserting one is a
// storage-enforced uniqueness check: two racing reservations for the same
// slot and day cannot both upsert the same _id.
type claim struct {
	ID            string `bson:"_id"`
	Kind          string `bson:"kind"`
	ReservationID string `bson:"reservationId"`
	UserID        string `bson:"userId"`
	SlotID        string `bson:"slotId"`
	Day           string `bson:"day"`
}

func slotClaimID(slotID, day string) string {
	return "slot:" + slotID + ":" + day
}

func userClaimID(userID, day string) string {
	return "user:" + userID + ":" + day
}

// Reserve validates the request against the ledger and, if admissible,
// commits it by claiming every day of the range before inserting the
// reservation document. A claim that fails to upsert means another
// reservation won the race; everything claimed so far is rolled back and
// the matching conflict error is returned.
func Reserve(ctx context.Context, req ReservationRequest) (*Reservation, error) {
	cur, err := db.ReservationsCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var existing []Reservation
	if err := cur.All(ctx, &existing); err != nil {
		return nil, err
	}

	if err := CheckAdmission(req, existing); err != nil {
		return nil, err
	}

	start, end := NormalizeRange(req.StartDate, req.EndDate)
	res := Reservation{
		ID:        utils.GenerateRandomDigitString(16),
		UserID:    req.UserID,
		SlotID:    req.SlotID,
		StartDate: start,
		EndDate:   end,
		CreatedAt: time.Now().Unix(),
	}

	var claimed []string
	rollback := func() {
		if len(claimed) > 0 {
			db.ClaimsCollection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": claimed}})
		}
	}

	for _, day := range res.Days() {
		for _, c := range []claim{
			{ID: slotClaimID(res.SlotID, day), Kind: "slot", ReservationID: res.ID, UserID: res.UserID, SlotID: res.SlotID, Day: day},
			{ID: userClaimID(res.UserID, day), Kind: "user", ReservationID: res.ID, UserID: res.UserID, SlotID: res.SlotID, Day: day},
		} {
			result, err := db.ClaimsCollection.UpdateOne(ctx,
				bson.M{"_id": c.ID},
				bson.M{"$setOnInsert": c},
				options.Update().SetUpsert(true),
			)
			if err != nil {
				rollback()
				return nil, err
			}
			if result.UpsertedCount != 1 {
				rollback()
				if strings.HasPrefix(c.ID, "user:") {
					return nil, ErrUserAlreadyBooked
				}
				return nil, ErrSlotAlreadyBooked
			}
			claimed = append(claimed, c.ID)
		}
	}

	if _, err := db.ReservationsCollection.InsertOne(ctx, res); err != nil {
		rollback()
		return nil, err
	}
	return &res, nil
}

// releaseClaims drops the day claims belonging to the given reservations.
func releaseClaims(ctx context.Context, reservationIDs []string) error {
	if len(reservationIDs) == 0 {
		return nil
	}
	_, err := db.ClaimsCollection.DeleteMany(ctx, bson.M{"reservationId": bson.M{"$in": reservationIDs}})
	return err
}

// deleteReservations removes matching reservations and their claims.
// Claims go first so a partial failure can only leave a reservation
// without claims (self-healing on re-reserve), never a claim without a
// reservation blocking a slot forever.
func deleteReservations(ctx context.Context, filter bson.M) (int64, error) {
	cur, err := db.ReservationsCollection.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	var doomed []Reservation
	if err := cur.All(ctx, &doomed); err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(doomed))
	for _, res := range doomed {
		ids = append(ids, res.ID)
	}
	if err := releaseClaims(ctx, ids); err != nil {
		return 0, err
	}
	result, err := db.ReservationsCollection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
