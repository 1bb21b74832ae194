// Package integration contains the Integration bounded context.
// This context manages the synchronization of receiving, shipping and stock
// documents from the external Alta ERP provider into the warehouse platform.
//
// Key concepts:
//   - Document: Value object representing a receiving or shipping document in
//     canonical (provider-independent) vocabulary
//   - StockPartner / StockItem: Value objects for subject and per-warehouse
//     stock data pulled from the provider
//   - ReceivingSource / ShippingSource / StockSource: Ports for fetching
//     provider data through the authenticated transport layer
//   - ReceivingImporter / ShippingImporter: Ports for handing fetched
//     documents to the warehouse persistence services
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
